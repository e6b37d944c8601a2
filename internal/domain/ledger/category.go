package ledger

import (
	"strings"

	"github.com/finledger/backend/internal/domain/shared"
)

// Category classifies a payment. Known categories form a closed set;
// user-defined ones must use the explicit CUSTOM:<label> form.
type Category string

const (
	CategorySales      Category = "SALES"
	CategoryPurchase   Category = "PURCHASE"
	CategoryExpense    Category = "EXPENSE"
	CategorySalary     Category = "SALARY"
	CategoryRent       Category = "RENT"
	CategoryInterest   Category = "INTEREST"
	CategoryRoyalty    Category = "ROYALTY"
	CategoryChit       Category = "CHIT"
	CategoryLoan       Category = "LOAN"
	CategoryInvestment Category = "INVESTMENT"
	CategoryTransfer   Category = "TRANSFER"
	CategoryOpening    Category = "OPENING"
	CategoryOther      Category = "OTHER"
)

// CustomCategoryPrefix marks a user-defined category
const CustomCategoryPrefix = "CUSTOM:"

var knownCategories = map[Category]struct{}{
	CategorySales: {}, CategoryPurchase: {}, CategoryExpense: {}, CategorySalary: {},
	CategoryRent: {}, CategoryInterest: {}, CategoryRoyalty: {}, CategoryChit: {},
	CategoryLoan: {}, CategoryInvestment: {}, CategoryTransfer: {}, CategoryOpening: {},
	CategoryOther: {},
}

// CustomCategory builds a user-defined category
func CustomCategory(label string) (Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", shared.NewValidationError("custom category label cannot be empty")
	}
	if len(label) > 64 {
		return "", shared.NewValidationError("custom category label cannot exceed 64 characters")
	}
	return Category(CustomCategoryPrefix + label), nil
}

// ParseCategory validates a raw category. Empty input defaults to OTHER.
func ParseCategory(raw string) (Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryOther, nil
	}
	if len(raw) > len(CustomCategoryPrefix) && strings.EqualFold(raw[:len(CustomCategoryPrefix)], CustomCategoryPrefix) {
		return CustomCategory(raw[len(CustomCategoryPrefix):])
	}
	c := Category(strings.ToUpper(raw))
	if _, ok := knownCategories[c]; !ok {
		return "", shared.NewValidationError("unknown category %q, use %s<label> for custom categories", raw, CustomCategoryPrefix)
	}
	return c, nil
}

// IsCustom returns true for user-defined categories
func (c Category) IsCustom() bool {
	return strings.HasPrefix(string(c), CustomCategoryPrefix)
}

// Label returns the display label
func (c Category) Label() string {
	if c.IsCustom() {
		return strings.TrimPrefix(string(c), CustomCategoryPrefix)
	}
	return string(c)
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}
