package cqrs

import "github.com/shopspring/decimal"

type CreateCustomerCommand struct {
	Username       string
	Email          string
	FirstName      string
	LastName       string
	BirthYear      int
	OccupationType string
	Balance        decimal.Decimal
	Password       string
}

type TransferCommand struct {
	CustomerID string
	Amount     decimal.Decimal
}

type LoginCommand struct {
	Username string
	Password string
}

type CreateTransactionCommand struct {
	CustomerID     string
	Amount         decimal.Decimal
	Category       string
	TransferMethod string
	// Token is the caller's bearer credential, forwarded unchanged to the
	// customer service on the balance adjustment call.
	Token string
}
