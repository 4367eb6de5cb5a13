package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/walter090/customer-transactions/shared/models"
)

// TransactionWriteRepository handles ledger writes. Rows are append-only;
// after creation only the status column ever changes, and only along the
// pending -> committed / pending -> failed edges.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// CreateIntent records a pending ledger intent before the balance adjustment
// is attempted.
func (r *TransactionWriteRepository) CreateIntent(t *models.Transaction) error {
	query := `
		INSERT INTO transactions (identifier, customer_id, amount, category, transfer_method, transfer_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		t.Identifier, t.CustomerID, t.Amount, t.Category,
		t.TransferMethod, t.TransferTime, t.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction intent: %w", err)
	}
	return nil
}

// MarkCommitted transitions a pending intent to committed.
func (r *TransactionWriteRepository) MarkCommitted(identifier string) error {
	return r.setStatus(identifier, models.StatusCommitted)
}

// MarkFailed transitions a pending intent to failed.
func (r *TransactionWriteRepository) MarkFailed(identifier string) error {
	return r.setStatus(identifier, models.StatusFailed)
}

func (r *TransactionWriteRepository) setStatus(identifier string, status models.TransactionStatus) error {
	res, err := r.db.Exec(
		`UPDATE transactions SET status = $1 WHERE identifier = $2 AND status = $3`,
		status, identifier, models.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s: %w", status, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s is not pending", identifier)
	}
	return nil
}

// SweepStalePending retires intents that have been pending longer than
// olderThan, returning their identifiers for operator review.
func (r *TransactionWriteRepository) SweepStalePending(olderThan time.Duration) ([]string, error) {
	query := `
		UPDATE transactions
		SET status = $1
		WHERE status = $2 AND transfer_time < $3
		RETURNING identifier
	`
	rows, err := r.db.Query(query, models.StatusFailed, models.StatusPending, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("failed to sweep pending transactions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan swept transaction: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
