package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	CustomerCreated = "customer.created"
	BalanceUpdated  = "balance.updated"

	TransactionCommitted = "transaction.committed"
	TransactionFailed    = "transaction.failed"
)

// Stream names
const (
	CustomerEventsStream    = "customer.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type CustomerCreatedEvent struct {
	CustomerID string `json:"customerId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}

type BalanceUpdatedEvent struct {
	CustomerID string          `json:"customerId"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Change     decimal.Decimal `json:"change"`
}

type TransactionCommittedEvent struct {
	TransactionID  string          `json:"transactionId"`
	CustomerID     string          `json:"customerId"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	TransferMethod string          `json:"transferMethod"`
}

type TransactionFailedEvent struct {
	TransactionID string `json:"transactionId"`
	CustomerID    string `json:"customerId"`
	Reason        string `json:"reason"`
}
