package enums

import "fmt"

// StockMovementType is the direction of an inventory adjustment.
type StockMovementType string

const (
	StockMovementTypeIn  StockMovementType = "in"
	StockMovementTypeOut StockMovementType = "out"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementTypeIn,
	StockMovementTypeOut,
}

// String implements fmt.Stringer.
func (v StockMovementType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known StockMovementType.
func (v StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseStockMovementType converts raw input into a StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
