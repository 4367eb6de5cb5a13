package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/models"
	"github.com/walter090/customer-transactions/shared/utils"
)

// ---- fakes ----

type fakeCustomerWriter struct {
	created   *models.Customer
	createErr error
	balance   decimal.Decimal
	adjustErr error
	adjusted  []decimal.Decimal
}

func (f *fakeCustomerWriter) Create(c *models.Customer) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = c
	return nil
}

func (f *fakeCustomerWriter) AdjustBalance(_ string, amount decimal.Decimal) (decimal.Decimal, error) {
	if f.adjustErr != nil {
		return decimal.Zero, f.adjustErr
	}
	f.adjusted = append(f.adjusted, amount)
	return f.balance, nil
}

type fakeBasicCacher struct {
	cached map[string]*models.CustomerBasic
}

func (f *fakeBasicCacher) CacheBasic(_ context.Context, customerID string, basic *models.CustomerBasic) {
	if f.cached == nil {
		f.cached = make(map[string]*models.CustomerBasic)
	}
	f.cached[customerID] = basic
}

type fakeEventPublisher struct {
	events []string
}

func (f *fakeEventPublisher) Publish(_ context.Context, _, eventType string, _ any) error {
	f.events = append(f.events, eventType)
	return nil
}

func newService() (*CustomerCommandService, *fakeCustomerWriter, *fakeBasicCacher, *fakeEventPublisher) {
	writer := &fakeCustomerWriter{}
	cacher := &fakeBasicCacher{}
	publisher := &fakeEventPublisher{}
	return NewCustomerCommandService(writer, cacher, publisher), writer, cacher, publisher
}

func signupCmd() cqrs.CreateCustomerCommand {
	return cqrs.CreateCustomerCommand{
		Username:       "john123",
		Email:          "john@example.com",
		FirstName:      "John",
		LastName:       "Doe",
		BirthYear:      1976,
		OccupationType: "TECHNICAL",
		Password:       "hunter2hunter2",
	}
}

// ---- tests ----

func TestCreateCustomer(t *testing.T) {
	svc, writer, cacher, publisher := newService()

	customer, err := svc.CreateCustomer(signupCmd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utils.ValidateCustomerID(customer.Identifier) {
		t.Errorf("expected cus- prefixed identifier, got %q", customer.Identifier)
	}
	if customer.PasswordHash == "hunter2hunter2" {
		t.Error("password must not be stored in plain text")
	}
	if !utils.CheckPassword("hunter2hunter2", customer.PasswordHash) {
		t.Error("stored hash does not match the password")
	}
	if !customer.Balance.IsZero() {
		t.Errorf("expected zero opening balance, got %s", customer.Balance)
	}
	if !customer.IsActive {
		t.Error("new customers start active")
	}
	if writer.created == nil {
		t.Fatal("customer was not persisted")
	}
	if cacher.cached[customer.Identifier] == nil {
		t.Error("basic projection was not cached")
	}
	if len(publisher.events) != 1 || publisher.events[0] != "customer.created" {
		t.Errorf("expected customer.created event, got %v", publisher.events)
	}
}

func TestCreateCustomerNameFormatting(t *testing.T) {
	svc, _, _, _ := newService()

	cmd := signupCmd()
	cmd.FirstName = "  joHN "
	cmd.LastName = "dOE"

	customer, err := svc.CreateCustomer(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.FirstName != "John" {
		t.Errorf("expected first name John, got %q", customer.FirstName)
	}
	if customer.LastName != "Doe" {
		t.Errorf("expected last name Doe, got %q", customer.LastName)
	}
}

func TestCreateCustomerAccentedName(t *testing.T) {
	svc, _, _, _ := newService()

	cmd := signupCmd()
	cmd.FirstName = "émile"

	customer, err := svc.CreateCustomer(cmd)
	if err != nil {
		t.Fatalf("accented names are alphabetic and must be accepted, got %v", err)
	}
	if customer.FirstName != "Émile" {
		t.Errorf("expected first name Émile, got %q", customer.FirstName)
	}
}

func TestCreateCustomerRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*cqrs.CreateCustomerCommand)
		wantErr string
	}{
		{
			name:    "digits in name",
			mutate:  func(c *cqrs.CreateCustomerCommand) { c.FirstName = "j0hn" },
			wantErr: "special characters found in names",
		},
		{
			name:    "punctuation in name",
			mutate:  func(c *cqrs.CreateCustomerCommand) { c.LastName = "o'brien" },
			wantErr: "special characters found in names",
		},
		{
			name:    "birth year in the future",
			mutate:  func(c *cqrs.CreateCustomerCommand) { c.BirthYear = time.Now().Year() + 1 },
			wantErr: "invalid year of birth",
		},
		{
			name:    "birth year too far back",
			mutate:  func(c *cqrs.CreateCustomerCommand) { c.BirthYear = time.Now().Year() - 151 },
			wantErr: "invalid year of birth",
		},
		{
			name:    "unknown occupation",
			mutate:  func(c *cqrs.CreateCustomerCommand) { c.OccupationType = "ASTRONAUT" },
			wantErr: "invalid occupation type",
		},
		{
			name:    "negative opening balance",
			mutate:  func(c *cqrs.CreateCustomerCommand) { c.Balance = decimal.RequireFromString("-1.00") },
			wantErr: "initial balance may not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, writer, _, _ := newService()
			cmd := signupCmd()
			tt.mutate(&cmd)

			_, err := svc.CreateCustomer(cmd)
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("expected error %q, got %v", tt.wantErr, err)
			}
			if writer.created != nil {
				t.Error("nothing should be persisted on a rejected signup")
			}
		})
	}
}

func TestCreateCustomerOccupationDefaults(t *testing.T) {
	svc, _, _, _ := newService()

	cmd := signupCmd()
	cmd.OccupationType = ""

	customer, err := svc.CreateCustomer(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(customer.OccupationType) != "MISC" {
		t.Errorf("expected occupation to default to MISC, got %s", customer.OccupationType)
	}
}

func TestTransfer(t *testing.T) {
	svc, writer, _, publisher := newService()
	writer.balance = decimal.RequireFromString("249.01")

	balance, err := svc.Transfer(cqrs.TransferCommand{
		CustomerID: "cus-001",
		Amount:     decimal.RequireFromString("-50.99"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("249.01")) {
		t.Errorf("expected balance 249.01, got %s", balance)
	}
	if len(writer.adjusted) != 1 || !writer.adjusted[0].Equal(decimal.RequireFromString("-50.99")) {
		t.Errorf("expected a single adjustment of -50.99, got %v", writer.adjusted)
	}
	if len(publisher.events) != 1 || publisher.events[0] != "balance.updated" {
		t.Errorf("expected balance.updated event, got %v", publisher.events)
	}
}

func TestTransferZeroAmount(t *testing.T) {
	svc, writer, _, publisher := newService()

	_, err := svc.Transfer(cqrs.TransferCommand{CustomerID: "cus-001", Amount: decimal.Zero})
	if err == nil || err.Error() != "amount must be non-zero" {
		t.Fatalf("expected non-zero amount error, got %v", err)
	}
	if len(writer.adjusted) != 0 {
		t.Error("balance must not be touched for a zero amount")
	}
	if len(publisher.events) != 0 {
		t.Error("no event should be published for a rejected transfer")
	}
}

func TestTransferOverdraft(t *testing.T) {
	svc, writer, _, publisher := newService()
	writer.adjustErr = fmt.Errorf("account overdrawn")

	_, err := svc.Transfer(cqrs.TransferCommand{
		CustomerID: "cus-001",
		Amount:     decimal.RequireFromString("-500.00"),
	})
	if err == nil || err.Error() != "account overdrawn" {
		t.Fatalf("expected overdraft error, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Error("no event should be published when the adjustment is rejected")
	}
}
