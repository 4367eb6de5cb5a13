package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/enums"
)

// Customer is the write model owned by the customer service. Balance is the
// authoritative current balance; it is only ever mutated through the transfer
// operation.
type Customer struct {
	Identifier     string           `json:"identifier"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	PasswordHash   string           `json:"-"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	BirthYear      int              `json:"birth_year"`
	OccupationType enums.Occupation `json:"occupation_type"`
	Balance        decimal.Decimal  `json:"balance"`
	IsStaff        bool             `json:"-"`
	IsSuperuser    bool             `json:"-"`
	IsActive       bool             `json:"-"`
	CreationDate   time.Time        `json:"creation_date"`
}

// CustomerView is the public listing projection of a customer.
type CustomerView struct {
	Identifier     string           `json:"identifier"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	BirthYear      int              `json:"birth_year"`
	OccupationType enums.Occupation `json:"occupation_type"`
}

// CustomerBasic is the minimal projection served to the transaction service
// for dataset export.
type CustomerBasic struct {
	Username       string           `json:"username"`
	OccupationType enums.Occupation `json:"occupation_type"`
	BirthYear      int              `json:"birth_year"`
}

// TransactionStatus tracks a ledger intent through the transfer protocol.
// A row starts pending, becomes committed once the balance adjustment has
// been acknowledged, and failed if the adjustment was rejected or the intent
// went stale.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCommitted TransactionStatus = "committed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is a ledger entry owned by the transaction service. Entries are
// append-only; transfer_time is server-assigned and immutable.
type Transaction struct {
	Identifier     string            `json:"identifier"`
	CustomerID     string            `json:"customer_id"`
	Amount         decimal.Decimal   `json:"amount"`
	Category       enums.Category    `json:"category"`
	TransferMethod enums.Method      `json:"transfer_method"`
	TransferTime   time.Time         `json:"transfer_time"`
	Status         TransactionStatus `json:"-"`
}

// TransactionView is the read projection of a committed ledger entry.
type TransactionView struct {
	Identifier     string          `json:"identifier"`
	CustomerID     string          `json:"customer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Category       enums.Category  `json:"category"`
	TransferMethod enums.Method    `json:"transfer_method"`
	TransferTime   time.Time       `json:"transfer_time"`
}

// TransactionInfo is the monthly aggregation returned by the info action and
// embedded in customer profiles. Totals and bucket values are serialized as
// decimal strings to avoid floating point loss on the wire.
type TransactionInfo struct {
	TotalSpending        decimal.Decimal   `json:"total_spending"`
	TotalIncome          decimal.Decimal   `json:"total_income"`
	TransferMethods      map[string]string `json:"transfer_methods"`
	TransferMethodsRatio map[string]string `json:"transfer_methods_ratio"`
	Spending             map[string]string `json:"spending"`
	SpendingRatio        map[string]string `json:"spending_ratio"`
	LastMonthHistory     []TransactionView `json:"last_month_history"`
}
