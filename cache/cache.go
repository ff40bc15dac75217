package cache

import (
	"context"
	"errors"

	"storefront-cart/models"

	"github.com/google/uuid"
)

// CartCache holds the last committed snapshot of each user's cart. Set must never replace a
// snapshot with a lower Version.
type CartCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Set(ctx context.Context, userID uuid.UUID, cart *models.Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

var ErrCacheMiss = errors.New("cache miss")
