package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/walter090/customer-transactions/shared/models"
	sharedredis "github.com/walter090/customer-transactions/shared/redis"
)

const basicViewKeyPrefix = "customer:basic:"

// CustomerReadRepository serves the basic customer projection, using Redis as
// the primary read store and falling back to PostgreSQL on a miss. The basic
// view backs the dataset export's per-row lookups, which is the hottest read
// path in the system.
type CustomerReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.CustomerBasic]
}

func NewCustomerReadRepository(db *sql.DB, redisClient *goredis.Client) *CustomerReadRepository {
	return &CustomerReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.CustomerBasic](redisClient, 5*time.Minute),
	}
}

// Basic returns the minimal projection for a customer.
func (r *CustomerReadRepository) Basic(ctx context.Context, customerID string) (*models.CustomerBasic, error) {
	cacheKey := basicViewKeyPrefix + customerID
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT username, occupation_type, birth_year
		FROM customers
		WHERE identifier = $1
	`
	var basic models.CustomerBasic
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&basic.Username, &basic.OccupationType, &basic.BirthYear,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	r.cache.Set(ctx, cacheKey, &basic)
	return &basic, nil
}

// CacheBasic warms the basic view, called after signup.
func (r *CustomerReadRepository) CacheBasic(ctx context.Context, customerID string, basic *models.CustomerBasic) {
	r.cache.Set(ctx, basicViewKeyPrefix+customerID, basic)
}
