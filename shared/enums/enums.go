// Package enums is the single source of truth for the category, transfer
// method and occupation vocabularies shared by the customer and transaction
// services.
package enums

import "github.com/shopspring/decimal"

// Category classifies a transaction.
type Category string

const (
	CategoryUtilities     Category = "UTILITIES"
	CategoryGroceries     Category = "GROCERIES"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryDining        Category = "DINING"
	CategoryTravel        Category = "TRAVEL"
	CategoryMedical       Category = "MEDICAL"
	CategoryMisc          Category = "MISC"
	CategoryIncome        Category = "INCOME"
)

var categoryDisplay = map[Category]string{
	CategoryUtilities:     "Utilities",
	CategoryGroceries:     "Groceries",
	CategoryEntertainment: "Entertainment",
	CategoryDining:        "Dining",
	CategoryTravel:        "Travel",
	CategoryMedical:       "Medical",
	CategoryMisc:          "Miscellaneous",
	CategoryIncome:        "Income",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryDisplay[c]
	return ok
}

// Display returns the human-readable name for c.
func (c Category) Display() string {
	return categoryDisplay[c]
}

// NormalizeCategory applies the creation-time category policy: credits are
// always recorded as income, and a debit may not claim the income category.
func NormalizeCategory(c Category, amount decimal.Decimal) Category {
	if amount.IsPositive() {
		return CategoryIncome
	}
	if c == CategoryIncome {
		return CategoryMisc
	}
	return c
}

// Method is the means by which a transfer was made.
type Method string

const (
	MethodATM        Method = "ATM"
	MethodWire       Method = "WIRE"
	MethodOnline     Method = "ONLINE"
	MethodCheck      Method = "CHECK"
	MethodMoneyOrder Method = "MONEY_ORDER"
	MethodCard       Method = "CARD"
)

var methodDisplay = map[Method]string{
	MethodATM:        "ATM/Cash",
	MethodWire:       "Wire Transfer",
	MethodOnline:     "Online Transfer",
	MethodCheck:      "Check",
	MethodMoneyOrder: "Money Order",
	MethodCard:       "Card",
}

// Valid reports whether m is a known transfer method.
func (m Method) Valid() bool {
	_, ok := methodDisplay[m]
	return ok
}

// Display returns the human-readable name for m.
func (m Method) Display() string {
	return methodDisplay[m]
}

// Occupation is a customer's occupation category.
type Occupation string

const (
	OccupationManagerial   Occupation = "MANAGERIAL"
	OccupationProfessional Occupation = "PROFESSIONAL"
	OccupationClerical     Occupation = "CLERICAL"
	OccupationTechnical    Occupation = "TECHNICAL"
	OccupationService      Occupation = "SERVICE"
	OccupationAgricultural Occupation = "AGRICULTURAL"
	OccupationElementary   Occupation = "ELEMENTARY"
	OccupationMilitary     Occupation = "MILITARY"
	OccupationMisc         Occupation = "MISC"
)

var occupations = map[Occupation]struct{}{
	OccupationManagerial:   {},
	OccupationProfessional: {},
	OccupationClerical:     {},
	OccupationTechnical:    {},
	OccupationService:      {},
	OccupationAgricultural: {},
	OccupationElementary:   {},
	OccupationMilitary:     {},
	OccupationMisc:         {},
}

// Valid reports whether o is a known occupation.
func (o Occupation) Valid() bool {
	_, ok := occupations[o]
	return ok
}
