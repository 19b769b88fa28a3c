package db

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/minishop/ordersys/internal/cache"
	"github.com/minishop/ordersys/internal/models"
)

// CachedOrderRepository wraps OrderRepository with cache-aside reads.
// Orders are immutable once created, so cached entries never go stale;
// only the list key needs invalidation on create.
type CachedOrderRepository struct {
	repo  *OrderRepository
	cache *cache.RedisCache
}

func NewCachedOrderRepository(repo *OrderRepository, cache *cache.RedisCache) *CachedOrderRepository {
	return &CachedOrderRepository{
		repo:  repo,
		cache: cache,
	}
}

func orderKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}

func allOrdersKey() string {
	return "orders:all"
}

// Create inserts the order and invalidates the order list cache
func (r *CachedOrderRepository) Create(ctx context.Context, itemName string) (*models.Order, string, error) {
	order, eventID, err := r.repo.Create(ctx, itemName)
	if err != nil {
		return nil, "", err
	}

	if err := r.cache.Delete(ctx, allOrdersKey()); err != nil {
		log.Printf("⚠️ Failed to invalidate order list cache: %v", err)
	}

	return order, eventID, nil
}

// GetAll returns all orders (with caching)
func (r *CachedOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	cacheKey := allOrdersKey()

	var orders []models.Order
	err := r.cache.Get(ctx, cacheKey, &orders)
	if err == nil {
		log.Println("📦 Cache HIT: all orders")
		return orders, nil
	}

	log.Println("💾 Cache MISS: all orders - fetching from DB")
	orders, err = r.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, orders); err != nil {
		log.Printf("⚠️ Failed to cache orders: %v", err)
	}

	return orders, nil
}

// GetByID returns a single order (with caching)
func (r *CachedOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	cacheKey := orderKey(id)

	var order models.Order
	err := r.cache.Get(ctx, cacheKey, &order)
	if err == nil {
		log.Printf("📦 Cache HIT: order %d", id)
		return &order, nil
	}

	if err != redis.Nil {
		log.Printf("⚠️ Cache error: %v", err)
	}

	log.Printf("💾 Cache MISS: order %d - fetching from DB", id)
	o, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, nil
	}

	if err := r.cache.Set(ctx, cacheKey, o); err != nil {
		log.Printf("⚠️ Failed to cache order: %v", err)
	}

	return o, nil
}
