package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/enums"
	"github.com/walter090/customer-transactions/shared/events"
	"github.com/walter090/customer-transactions/shared/models"
	"github.com/walter090/customer-transactions/shared/utils"
)

// LedgerWriter is the write-store surface used by TransactionCommandService.
type LedgerWriter interface {
	CreateIntent(*models.Transaction) error
	MarkCommitted(identifier string) error
	MarkFailed(identifier string) error
}

// ViewCacher caches committed transaction views.
type ViewCacher interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
}

// BalanceAdjuster applies a signed balance change on the customer service.
// The call authorizes and applies the movement in one step.
type BalanceAdjuster interface {
	Transfer(ctx context.Context, customerID string, amount decimal.Decimal, token string) (decimal.Decimal, error)
}

// EventPublisher appends domain events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransactionCommandService appends ledger entries. Each creation runs the
// transfer protocol: record a pending intent, ask the customer service to
// apply the balance change, then commit or fail the intent. The ledger
// therefore never contains a committed entry whose balance change was not
// applied; an intent stuck in pending is retired by the reconciliation
// sweeper.
type TransactionCommandService struct {
	writeRepo      LedgerWriter
	readRepo       ViewCacher
	customerClient BalanceAdjuster
	publisher      EventPublisher
}

func NewTransactionCommandService(
	writeRepo LedgerWriter,
	readRepo ViewCacher,
	customerClient BalanceAdjuster,
	publisher EventPublisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo:      writeRepo,
		readRepo:       readRepo,
		customerClient: customerClient,
		publisher:      publisher,
	}
}

func (s *TransactionCommandService) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if cmd.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be non-zero")
	}

	// The customer id comes from the request body, not from the verified
	// claims; a malformed one is rejected before any intent is written.
	if !utils.ValidateCustomerID(cmd.CustomerID) {
		return nil, fmt.Errorf("invalid customer identifier")
	}

	category := enums.Category(cmd.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category")
	}
	method := enums.Method(cmd.TransferMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("invalid transfer method")
	}

	// Creation-time policy, not caller-supplied truth: credits are income,
	// debits may not claim income.
	category = enums.NormalizeCategory(category, cmd.Amount)

	transaction := &models.Transaction{
		Identifier:     utils.GenerateID("tan"),
		CustomerID:     cmd.CustomerID,
		Amount:         cmd.Amount,
		Category:       category,
		TransferMethod: method,
		TransferTime:   time.Now().UTC(),
		Status:         models.StatusPending,
	}

	ctx := context.Background()
	if err := s.writeRepo.CreateIntent(transaction); err != nil {
		return nil, err
	}

	if _, err := s.customerClient.Transfer(ctx, cmd.CustomerID, cmd.Amount, cmd.Token); err != nil {
		if markErr := s.writeRepo.MarkFailed(transaction.Identifier); markErr != nil {
			log.Printf("Failed to mark transaction %s failed: %v", transaction.Identifier, markErr)
		}
		s.publishFailed(ctx, transaction, err)
		return nil, err
	}

	if err := s.writeRepo.MarkCommitted(transaction.Identifier); err != nil {
		// The balance change has been applied but the intent is still
		// pending; the reconciliation sweeper will surface it.
		log.Printf("Balance applied but commit of transaction %s failed: %v", transaction.Identifier, err)
		return nil, fmt.Errorf("failed to record transaction")
	}
	transaction.Status = models.StatusCommitted

	s.readRepo.CacheTransactionView(ctx, txToView(transaction))
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCommitted, events.TransactionCommittedEvent{
		TransactionID:  transaction.Identifier,
		CustomerID:     transaction.CustomerID,
		Amount:         transaction.Amount,
		Category:       string(transaction.Category),
		TransferMethod: string(transaction.TransferMethod),
	}); err != nil {
		log.Printf("Failed to publish transaction.committed event: %v", err)
	}
	return transaction, nil
}

func (s *TransactionCommandService) publishFailed(ctx context.Context, t *models.Transaction, cause error) {
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionFailed, events.TransactionFailedEvent{
		TransactionID: t.Identifier,
		CustomerID:    t.CustomerID,
		Reason:        cause.Error(),
	}); err != nil {
		log.Printf("Failed to publish transaction.failed event: %v", err)
	}
}

// txToView converts the write model to a read view model.
func txToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		Identifier:     t.Identifier,
		CustomerID:     t.CustomerID,
		Amount:         t.Amount,
		Category:       t.Category,
		TransferMethod: t.TransferMethod,
		TransferTime:   t.TransferTime,
	}
}
