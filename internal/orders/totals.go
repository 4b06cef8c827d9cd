package orders

import "github.com/shopspring/decimal"

// TaxRate is the flat VAT applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.10")

// Totals holds the money figures of an order.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineSubtotal prices one order line.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeTotals sums line subtotals and applies tax rounded to cents, so
// Total always equals Subtotal + Tax exactly.
func ComputeTotals(lineSubtotals []decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lineSubtotals {
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
