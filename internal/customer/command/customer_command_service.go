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

const maxCustomerAge = 150

// CustomerWriter is the write-store surface used by CustomerCommandService.
type CustomerWriter interface {
	Create(*models.Customer) error
	AdjustBalance(customerID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// BasicCacher keeps the cached basic projection in sync with writes.
type BasicCacher interface {
	CacheBasic(ctx context.Context, customerID string, basic *models.CustomerBasic)
}

// EventPublisher appends domain events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// CustomerCommandService creates customers and applies balance transfers.
type CustomerCommandService struct {
	writeRepo CustomerWriter
	readRepo  BasicCacher
	publisher EventPublisher
}

func NewCustomerCommandService(writeRepo CustomerWriter, readRepo BasicCacher, publisher EventPublisher) *CustomerCommandService {
	return &CustomerCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// CreateCustomer registers a new customer. Names are normalized and must be
// alphabetic; the birth year may not be in the future or imply an age over
// 150; occupation defaults to MISC and the opening balance to zero.
func (s *CustomerCommandService) CreateCustomer(cmd cqrs.CreateCustomerCommand) (*models.Customer, error) {
	firstName := utils.FormatName(cmd.FirstName)
	lastName := utils.FormatName(cmd.LastName)
	if !utils.IsAlpha(firstName) || !utils.IsAlpha(lastName) {
		return nil, fmt.Errorf("special characters found in names")
	}

	currentYear := time.Now().Year()
	if cmd.BirthYear > currentYear || currentYear-cmd.BirthYear > maxCustomerAge {
		return nil, fmt.Errorf("invalid year of birth")
	}

	occupation := enums.Occupation(cmd.OccupationType)
	if cmd.OccupationType == "" {
		occupation = enums.OccupationMisc
	} else if !occupation.Valid() {
		return nil, fmt.Errorf("invalid occupation type")
	}

	if cmd.Balance.IsNegative() {
		return nil, fmt.Errorf("initial balance may not be negative")
	}

	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		Identifier:     utils.GenerateID("cus"),
		Username:       cmd.Username,
		Email:          cmd.Email,
		PasswordHash:   hash,
		FirstName:      firstName,
		LastName:       lastName,
		BirthYear:      cmd.BirthYear,
		OccupationType: occupation,
		Balance:        cmd.Balance,
		IsActive:       true,
		CreationDate:   time.Now().UTC(),
	}
	if err := s.writeRepo.Create(customer); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.readRepo.CacheBasic(ctx, customer.Identifier, &models.CustomerBasic{
		Username:       customer.Username,
		OccupationType: customer.OccupationType,
		BirthYear:      customer.BirthYear,
	})
	if err := s.publisher.Publish(ctx, events.CustomerEventsStream, events.CustomerCreated, events.CustomerCreatedEvent{
		CustomerID: customer.Identifier,
		Username:   customer.Username,
		Email:      customer.Email,
	}); err != nil {
		log.Printf("Failed to publish customer.created event: %v", err)
	}
	return customer, nil
}

// Transfer applies a signed amount to a customer's balance. The adjustment is
// a single conditional update in the write store, so an overdraft leaves the
// balance untouched and concurrent transfers cannot lose updates.
func (s *CustomerCommandService) Transfer(cmd cqrs.TransferCommand) (decimal.Decimal, error) {
	if cmd.Amount.IsZero() {
		return decimal.Zero, fmt.Errorf("amount must be non-zero")
	}

	balance, err := s.writeRepo.AdjustBalance(cmd.CustomerID, cmd.Amount)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.publisher.Publish(context.Background(), events.CustomerEventsStream, events.BalanceUpdated, events.BalanceUpdatedEvent{
		CustomerID: cmd.CustomerID,
		NewBalance: balance,
		Change:     cmd.Amount,
	}); err != nil {
		log.Printf("Failed to publish balance.updated event: %v", err)
	}
	return balance, nil
}
