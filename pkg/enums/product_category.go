package enums

import "fmt"

// ProductCategory groups menu entries.
type ProductCategory string

const (
	ProductCategoryCoffee      ProductCategory = "coffee"
	ProductCategoryTea         ProductCategory = "tea"
	ProductCategoryPastry      ProductCategory = "pastry"
	ProductCategorySandwich    ProductCategory = "sandwich"
	ProductCategoryJuice       ProductCategory = "juice"
	ProductCategoryFood        ProductCategory = "food"
	ProductCategoryDrink       ProductCategory = "drink"
	ProductCategoryMerchandise ProductCategory = "merchandise"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryCoffee,
	ProductCategoryTea,
	ProductCategoryPastry,
	ProductCategorySandwich,
	ProductCategoryJuice,
	ProductCategoryFood,
	ProductCategoryDrink,
	ProductCategoryMerchandise,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (v ProductCategory) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ProductCategory.
func (v ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
