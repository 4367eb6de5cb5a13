package query

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/clients"
	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/models"
)

// ---- fakes ----

type fakeLedgerReader struct {
	views []models.TransactionView
}

func (f *fakeLedgerReader) List(_ context.Context, _ string) ([]models.TransactionView, string, error) {
	return f.views, "", nil
}

func (f *fakeLedgerReader) InWindow(_ context.Context, customerID string, _, _ time.Time) ([]models.TransactionView, error) {
	var matched []models.TransactionView
	for _, v := range f.views {
		if v.CustomerID == customerID {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (f *fakeLedgerReader) WindowAscending(_ context.Context, _, _ time.Time) ([]models.TransactionView, error) {
	return f.views, nil
}

type fakeBasicReader struct {
	basics map[string]*models.CustomerBasic
	err    error
}

func (f *fakeBasicReader) Basic(_ context.Context, customerID, _ string) (*models.CustomerBasic, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.basics[customerID], nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ---- tests ----

func TestInfoAggregation(t *testing.T) {
	reader := &fakeLedgerReader{views: []models.TransactionView{
		{Identifier: "tan-1", CustomerID: "cus-1", Amount: dec("-50.99"), Category: "DINING", TransferMethod: "CARD", TransferTime: time.Now().UTC()},
		{Identifier: "tan-2", CustomerID: "cus-1", Amount: dec("1000.00"), Category: "INCOME", TransferMethod: "WIRE", TransferTime: time.Now().UTC()},
	}}
	svc := NewTransactionQueryService(reader, &fakeBasicReader{})

	info, err := svc.Info(cqrs.TransactionInfoQuery{CustomerID: "cus-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil {
		t.Fatal("expected aggregation, got nil")
	}

	if !info.TotalSpending.Equal(dec("50.99")) {
		t.Errorf("expected total_spending 50.99, got %s", info.TotalSpending)
	}
	if !info.TotalIncome.Equal(dec("1000.00")) {
		t.Errorf("expected total_income 1000.00, got %s", info.TotalIncome)
	}
	if got := info.Spending["DINING"]; got != "50.99" {
		t.Errorf("expected spending[DINING]=50.99, got %q", got)
	}
	if got := info.SpendingRatio["DINING"]; got != "1.00" {
		t.Errorf("expected spending_ratio[DINING]=1.00, got %q", got)
	}
	if got := info.TransferMethods["CARD"]; got != "50.99" {
		t.Errorf("expected transfer_methods[CARD]=50.99, got %q", got)
	}
	if got := info.TransferMethodsRatio["CARD"]; got != "1.00" {
		t.Errorf("expected transfer_methods_ratio[CARD]=1.00, got %q", got)
	}
	if len(info.LastMonthHistory) != 2 {
		t.Errorf("expected full history, got %d entries", len(info.LastMonthHistory))
	}
}

func TestInfoNoDebits(t *testing.T) {
	reader := &fakeLedgerReader{views: []models.TransactionView{
		{Identifier: "tan-1", CustomerID: "cus-1", Amount: dec("200.00"), Category: "INCOME", TransferMethod: "WIRE", TransferTime: time.Now().UTC()},
	}}
	svc := NewTransactionQueryService(reader, &fakeBasicReader{})

	info, err := svc.Info(cqrs.TransactionInfoQuery{CustomerID: "cus-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.TotalSpending.IsZero() {
		t.Errorf("expected zero total_spending, got %s", info.TotalSpending)
	}
	if len(info.SpendingRatio) != 0 || len(info.TransferMethodsRatio) != 0 {
		t.Errorf("ratio maps must be empty when there is no spending")
	}
}

func TestInfoNoTransactions(t *testing.T) {
	svc := NewTransactionQueryService(&fakeLedgerReader{}, &fakeBasicReader{})

	info, err := svc.Info(cqrs.TransactionInfoQuery{CustomerID: "cus-9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil info for empty window")
	}
}

func TestDatasetJoinsCustomerAttributes(t *testing.T) {
	reader := &fakeLedgerReader{views: []models.TransactionView{
		{Identifier: "tan-1", CustomerID: "cus-1", Amount: dec("-12.50"), Category: "GROCERIES", TransferMethod: "CARD", TransferTime: time.Now().UTC()},
	}}
	basics := &fakeBasicReader{basics: map[string]*models.CustomerBasic{
		"cus-1": {Username: "john123", OccupationType: "TECHNICAL", BirthYear: 1976},
	}}
	svc := NewTransactionQueryService(reader, basics)

	rows, err := svc.Dataset(cqrs.DatasetQuery{RewindMonths: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	want := []string{"TECHNICAL", "1976", "CARD", "GROCERIES", "-12.5"}
	for i, col := range want {
		if rows[1][i] != col {
			t.Errorf("row column %d: expected %q, got %q", i, col, rows[1][i])
		}
	}
}

func TestDatasetAbortsOnLookupFailure(t *testing.T) {
	reader := &fakeLedgerReader{views: []models.TransactionView{
		{Identifier: "tan-1", CustomerID: "cus-1", Amount: dec("-12.50"), Category: "GROCERIES", TransferMethod: "CARD", TransferTime: time.Now().UTC()},
		{Identifier: "tan-2", CustomerID: "cus-2", Amount: dec("-3.00"), Category: "DINING", TransferMethod: "ATM", TransferTime: time.Now().UTC()},
	}}
	basics := &fakeBasicReader{err: &clients.RemoteError{StatusCode: 401, Message: "customer lookup failed"}}
	svc := NewTransactionQueryService(reader, basics)

	rows, err := svc.Dataset(cqrs.DatasetQuery{RewindMonths: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if rows != nil {
		t.Errorf("no partial rows may be returned, got %v", rows)
	}
}
