package query

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walter090/customer-transactions/shared/cqrs"
	"github.com/walter090/customer-transactions/shared/models"
)

// LedgerReader is the read-store surface used by TransactionQueryService.
type LedgerReader interface {
	List(ctx context.Context, cursor string) ([]models.TransactionView, string, error)
	InWindow(ctx context.Context, customerID string, start, end time.Time) ([]models.TransactionView, error)
	WindowAscending(ctx context.Context, start, end time.Time) ([]models.TransactionView, error)
}

// CustomerBasicReader fetches customer attributes for dataset export.
type CustomerBasicReader interface {
	Basic(ctx context.Context, customerID, token string) (*models.CustomerBasic, error)
}

// TransactionQueryService serves ledger reads and aggregations over
// committed entries.
type TransactionQueryService struct {
	readRepo     LedgerReader
	customerRepo CustomerBasicReader
}

func NewTransactionQueryService(readRepo LedgerReader, customerRepo CustomerBasicReader) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo, customerRepo: customerRepo}
}

// ListTransactions returns one page of the ledger, newest first.
func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) ([]models.TransactionView, string, error) {
	return s.readRepo.List(context.Background(), q.Cursor)
}

// Info aggregates a customer's activity since the start of last month.
// Returns (nil, nil) when the window holds no transactions.
func (s *TransactionQueryService) Info(q cqrs.TransactionInfoQuery) (*models.TransactionInfo, error) {
	start, end := monthWindow(1, true, time.Now().UTC())

	transactions, err := s.readRepo.InWindow(context.Background(), q.CustomerID, start, end)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, nil
	}
	return aggregate(transactions), nil
}

// aggregate computes totals, per-method and per-category debit breakdowns,
// and their shares of total spending. Credits count toward income only.
func aggregate(transactions []models.TransactionView) *models.TransactionInfo {
	totalSpending := decimal.Zero
	totalIncome := decimal.Zero
	methods := map[string]decimal.Decimal{}
	spending := map[string]decimal.Decimal{}

	for _, t := range transactions {
		if t.Amount.IsNegative() {
			debit := t.Amount.Neg()
			totalSpending = totalSpending.Add(debit)
			methods[string(t.TransferMethod)] = methods[string(t.TransferMethod)].Add(debit)
			spending[string(t.Category)] = spending[string(t.Category)].Add(debit)
		} else {
			totalIncome = totalIncome.Add(t.Amount)
		}
	}

	info := &models.TransactionInfo{
		TotalSpending:        totalSpending,
		TotalIncome:          totalIncome,
		TransferMethods:      map[string]string{},
		TransferMethodsRatio: map[string]string{},
		Spending:             map[string]string{},
		SpendingRatio:        map[string]string{},
		LastMonthHistory:     transactions,
	}
	for key, total := range methods {
		info.TransferMethods[key] = total.String()
	}
	for key, total := range spending {
		info.Spending[key] = total.String()
	}
	// With no debits in the window the ratio maps stay empty; never divide
	// by a zero total.
	if !totalSpending.IsZero() {
		for key, total := range methods {
			info.TransferMethodsRatio[key] = total.DivRound(totalSpending, 2).StringFixed(2)
		}
		for key, total := range spending {
			info.SpendingRatio[key] = total.DivRound(totalSpending, 2).StringFixed(2)
		}
	}
	return info
}

// DatasetHeader is the first row of every dataset export.
var DatasetHeader = []string{"occupation", "birth_year", "transfer_method", "category", "amount"}

// Dataset joins a month window of the ledger with customer attributes, one
// row per transaction in ascending time order. Any failed customer lookup
// aborts the whole export; there is no partial-success mode.
func (s *TransactionQueryService) Dataset(q cqrs.DatasetQuery) ([][]string, error) {
	start, end := monthWindow(q.RewindMonths, true, time.Now().UTC())

	ctx := context.Background()
	transactions, err := s.readRepo.WindowAscending(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows := [][]string{DatasetHeader}
	for _, t := range transactions {
		customer, err := s.customerRepo.Basic(ctx, t.CustomerID, q.Token)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{
			string(customer.OccupationType),
			strconv.Itoa(customer.BirthYear),
			string(t.TransferMethod),
			string(t.Category),
			t.Amount.String(),
		})
	}
	return rows, nil
}
