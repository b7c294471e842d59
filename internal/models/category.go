// Package models provides the data structures used throughout the application.
package models

import "strings"

// Category is one of the closed set of transaction categories.
// The canonical form is uppercase with underscores instead of spaces,
// e.g. "Balance Correction" -> "BALANCE_CORRECTION".
type Category string

const (
	CategoryGroceries         Category = "GROCERIES"
	CategoryNonGroceries      Category = "NON_GROCERIES"
	CategoryEntertainment     Category = "ENTERTAINMENT"
	CategoryShopping          Category = "SHOPPING"
	CategoryTransit           Category = "TRANSIT"
	CategoryBillsAndFees      Category = "BILLS_&_FEES"
	CategoryGifts             Category = "GIFTS"
	CategoryTravel            Category = "TRAVEL"
	CategoryIncome            Category = "INCOME"
	CategoryBalanceCorrection Category = "BALANCE_CORRECTION"
	CategoryHealth            Category = "HEALTH"
	CategoryDining            Category = "DINING"
	CategorySalary            Category = "SALARY"
	CategoryExtras            Category = "EXTRAS"
	CategoryPersonal          Category = "PERSONAL"
	CategoryUncategorized     Category = "UNCATEGORIZED"
)

// AllCategories lists every known category in display order.
var AllCategories = []Category{
	CategoryGroceries,
	CategoryNonGroceries,
	CategoryEntertainment,
	CategoryShopping,
	CategoryTransit,
	CategoryBillsAndFees,
	CategoryGifts,
	CategoryTravel,
	CategoryIncome,
	CategoryBalanceCorrection,
	CategoryHealth,
	CategoryDining,
	CategorySalary,
	CategoryExtras,
	CategoryPersonal,
	CategoryUncategorized,
}

var displayNames = map[Category]string{
	CategoryGroceries:         "Groceries",
	CategoryNonGroceries:      "Non Groceries",
	CategoryEntertainment:     "Entertainment",
	CategoryShopping:          "Shopping",
	CategoryTransit:           "Transit",
	CategoryBillsAndFees:      "Bills & Fees",
	CategoryGifts:             "Gifts",
	CategoryTravel:            "Travel",
	CategoryIncome:            "Income",
	CategoryBalanceCorrection: "Balance Correction",
	CategoryHealth:            "Health",
	CategoryDining:            "Dining",
	CategorySalary:            "Salary",
	CategoryExtras:            "Extras",
	CategoryPersonal:          "Personal",
	CategoryUncategorized:     "Uncategorized",
}

var knownCategories = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(AllCategories))
	for _, c := range AllCategories {
		m[c] = struct{}{}
	}
	return m
}()

// ParseCategory normalizes free-form text to the canonical category form and
// reports whether it names a known category. Unknown values are rejected at
// this boundary so plain strings never travel further into the pipeline.
func ParseCategory(s string) (Category, bool) {
	normalized := Category(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_"))
	_, ok := knownCategories[normalized]
	if !ok {
		return "", false
	}
	return normalized, true
}

// Display returns the human-readable category name.
func (c Category) Display() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// IsAssigned reports whether the category is a real assignment rather than
// the default marker.
func (c Category) IsAssigned() bool {
	return c != "" && c != CategoryUncategorized
}

// IsTransfer reports whether the category marks one side of an internal
// transfer between the user's own accounts.
func (c Category) IsTransfer() bool {
	return c == CategoryBalanceCorrection
}
