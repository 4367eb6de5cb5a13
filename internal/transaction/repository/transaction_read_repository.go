package repository

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/walter090/customer-transactions/shared/models"
	sharedredis "github.com/walter090/customer-transactions/shared/redis"
)

const (
	pageSize                 = 10
	transactionViewKeyPrefix = "transaction:view:"
)

// TransactionReadRepository serves committed ledger entries. Individual views
// are cached in Redis after commit; range queries always hit PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.TransactionView]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.TransactionView](redisClient, 0),
	}
}

const viewColumns = `identifier, customer_id, amount, category, transfer_method, transfer_time`

type transactionCursor struct {
	TransferTime time.Time `json:"t"`
	Identifier   string    `json:"i"`
}

// List returns one page of committed entries, newest first, with an opaque
// cursor for the next page.
func (r *TransactionReadRepository) List(ctx context.Context, cursor string) ([]models.TransactionView, string, error) {
	query := `SELECT ` + viewColumns + ` FROM transactions WHERE status = $1`
	args := []any{models.StatusCommitted}
	if cursor != "" {
		var cur transactionCursor
		if err := decodeCursor(cursor, &cur); err != nil {
			return nil, "", fmt.Errorf("invalid cursor")
		}
		query += ` AND (transfer_time, identifier) < ($2, $3)`
		args = append(args, cur.TransferTime, cur.Identifier)
	}
	query += fmt.Sprintf(` ORDER BY transfer_time DESC, identifier DESC LIMIT %d`, pageSize+1)

	views, err := r.queryViews(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(views) > pageSize {
		views = views[:pageSize]
		last := views[len(views)-1]
		next = encodeCursor(transactionCursor{TransferTime: last.TransferTime, Identifier: last.Identifier})
	}
	return views, next, nil
}

// InWindow returns a customer's committed entries in [start, end), newest
// first.
func (r *TransactionReadRepository) InWindow(ctx context.Context, customerID string, start, end time.Time) ([]models.TransactionView, error) {
	query := `
		SELECT ` + viewColumns + `
		FROM transactions
		WHERE status = $1 AND customer_id = $2 AND transfer_time >= $3 AND transfer_time < $4
		ORDER BY transfer_time DESC, identifier DESC
	`
	return r.queryViews(ctx, query, models.StatusCommitted, customerID, start, end)
}

// WindowAscending returns all committed entries in [start, end), oldest
// first, for dataset export.
func (r *TransactionReadRepository) WindowAscending(ctx context.Context, start, end time.Time) ([]models.TransactionView, error) {
	query := `
		SELECT ` + viewColumns + `
		FROM transactions
		WHERE status = $1 AND transfer_time >= $2 AND transfer_time < $3
		ORDER BY transfer_time ASC, identifier ASC
	`
	return r.queryViews(ctx, query, models.StatusCommitted, start, end)
}

func (r *TransactionReadRepository) queryViews(ctx context.Context, query string, args ...any) ([]models.TransactionView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		var v models.TransactionView
		if err := rows.Scan(&v.Identifier, &v.CustomerID, &v.Amount,
			&v.Category, &v.TransferMethod, &v.TransferTime); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, v)
	}
	return views, nil
}

// CacheTransactionView stores the read model for a committed entry in Redis.
// Called by the command service immediately after commit.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	r.cache.Set(ctx, transactionViewKeyPrefix+view.Identifier, view)
}

func encodeCursor(v any) string {
	data, _ := json.Marshal(v)
	return base64.URLEncoding.EncodeToString(data)
}

func decodeCursor(cursor string, v any) error {
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
