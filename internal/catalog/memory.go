package catalog

import (
	"context"

	"github.com/google/btree"
	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
)

type idEntry struct {
	id  string
	pos int
}

func lessID(a, b idEntry) bool {
	return a.id < b.id
}

// MemoryRepository serves an immutable catalog from memory. The product
// slice and the id index are never written after construction, so reads
// need no locking.
type MemoryRepository struct {
	products []domain.Product
	index    *btree.BTreeG[idEntry]
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository validates products and builds the id index.
func NewMemoryRepository(products []domain.Product) (*MemoryRepository, error) {
	prepared, err := PrepareCatalog(products)
	if err != nil {
		return nil, err
	}
	index := btree.NewG[idEntry](8, lessID)
	for i, p := range prepared {
		index.ReplaceOrInsert(idEntry{id: p.ID, pos: i})
	}
	return &MemoryRepository{products: prepared, index: index}, nil
}

func (r *MemoryRepository) All(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneAll(r.products), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, err
	}
	entry, ok := r.index.Get(idEntry{id: id})
	if !ok {
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "id %q", id)
	}
	return r.products[entry.pos].Clone(), nil
}

func (r *MemoryRepository) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := make([]domain.Product, 0)
	for _, p := range r.products {
		if p.HasCategory(category) {
			result = append(result, p.Clone())
		}
	}
	return result, nil
}

// Len number of products in the catalog
func (r *MemoryRepository) Len() int {
	return len(r.products)
}

func cloneAll(products []domain.Product) []domain.Product {
	result := make([]domain.Product, len(products))
	for i, p := range products {
		result[i] = p.Clone()
	}
	return result
}
