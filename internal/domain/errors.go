package domain

import "github.com/pkg/errors"

// Catalog error kinds. Each is distinct from an empty but successful result.
var (
	ErrNotFound       = errors.New("product not found")
	ErrUnavailable    = errors.New("catalog unavailable")
	ErrTimeout        = errors.New("catalog request timed out")
	ErrInvalidQuery   = errors.New("invalid catalog query")
	ErrInvalidProduct = errors.New("invalid product")
)
