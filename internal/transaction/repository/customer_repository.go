package repository

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/walter090/customer-transactions/shared/clients"
	"github.com/walter090/customer-transactions/shared/models"
	sharedredis "github.com/walter090/customer-transactions/shared/redis"
)

const customerBasicKeyPrefix = "customer:basic:"

// CustomerRepository fetches customer attributes from the customer service,
// caching the basic projection in Redis. Dataset export does one lookup per
// ledger row, so the cache keeps a month's export from hammering the
// customer service with duplicate requests.
type CustomerRepository struct {
	client *clients.CustomerClient
	cache  *sharedredis.ViewCache[models.CustomerBasic]
}

func NewCustomerRepository(client *clients.CustomerClient, redisClient *goredis.Client) *CustomerRepository {
	return &CustomerRepository{
		client: client,
		cache:  sharedredis.NewViewCache[models.CustomerBasic](redisClient, 5*time.Minute),
	}
}

// Basic returns the minimal customer projection, from cache when possible.
// The caller's token is forwarded on a miss.
func (r *CustomerRepository) Basic(ctx context.Context, customerID, token string) (*models.CustomerBasic, error) {
	cacheKey := customerBasicKeyPrefix + customerID
	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	basic, err := r.client.Basic(ctx, customerID, token)
	if err != nil {
		return nil, err
	}

	r.cache.Set(ctx, cacheKey, basic)
	return basic, nil
}
