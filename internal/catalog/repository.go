package catalog

import (
	"context"

	"github.com/talkincode/arcatalog/internal/domain"
)

// Repository is the backing store of a catalog. Implementations return
// products in catalog order and never hand out shared memory.
type Repository interface {
	// All returns every product in catalog order
	All(ctx context.Context) ([]domain.Product, error)

	// Get returns the product with id, or domain.ErrNotFound
	Get(ctx context.Context, id string) (domain.Product, error)

	// ByCategory returns products whose category equals category exactly
	ByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// Seeder is implemented by persistent repositories that can be filled
// from a seed catalog when empty.
type Seeder interface {
	// Count returns the number of stored products
	Count(ctx context.Context) (int64, error)

	// Replace stores products as the whole catalog
	Replace(ctx context.Context, products []domain.Product) error
}
