package catalog

import (
	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
)

// PrepareCatalog normalizes and validates a loaded catalog. It returns
// fresh copies with Sort set to each product's position.
func PrepareCatalog(products []domain.Product) ([]domain.Product, error) {
	seen := make(map[string]struct{}, len(products))
	result := make([]domain.Product, 0, len(products))
	for i, p := range products {
		p = p.Clone()
		p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, errors.WithMessagef(err, "product #%d", i+1)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, errors.Wrapf(domain.ErrInvalidProduct, "duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		p.Sort = i
		result = append(result, p)
	}
	return result, nil
}
