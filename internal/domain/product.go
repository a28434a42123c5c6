package domain

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ProductDimensions physical size of a product in meters
type ProductDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Product represents an item that can be viewed in AR
type Product struct {
	ID          string            `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Sort        int               `gorm:"index" json:"-" yaml:"-"`
	Name        string            `gorm:"size:200" json:"name" yaml:"name"`
	Description string            `gorm:"size:2000" json:"description" yaml:"description"`
	ImageURL    string            `gorm:"size:1024" json:"imageUrl" yaml:"imageUrl"`                          // 2D thumbnail
	ModelURL    string            `gorm:"size:1024" json:"modelUrl" yaml:"modelUrl"`                          // GLTF/GLB model
	Scale       float64           `json:"scale" yaml:"scale"`                                                 // real-world size multiplier
	Dimensions  ProductDimensions `gorm:"embedded;embeddedPrefix:dim_" json:"dimensions" yaml:"dimensions"`
	Category    *string           `gorm:"index;size:100" json:"category,omitempty" yaml:"category,omitempty"` // nil when uncategorized
	Price       *float64          `json:"price,omitempty" yaml:"price,omitempty"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "catalog_product"
}

// ProductListResponse is the result of a list query. Total always equals
// len(Products).
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// NewProductListResponse builds a fresh response over products.
func NewProductListResponse(products []Product) ProductListResponse {
	if products == nil {
		products = []Product{}
	}
	return ProductListResponse{Products: products, Total: len(products)}
}

// CategoryName returns the category or "" when absent.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}

// HasCategory reports an exact, case-sensitive category match.
func (p Product) HasCategory(category string) bool {
	return p.Category != nil && *p.Category == category
}

// Clone returns a deep copy, so optional fields are not shared.
func (p Product) Clone() Product {
	if p.Category != nil {
		p.Category = StringPtr(*p.Category)
	}
	if p.Price != nil {
		p.Price = Float64Ptr(*p.Price)
	}
	return p
}

// Normalize trims descriptive text fields and turns an empty category into
// an absent one. The id is opaque and left as is.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.ModelURL = strings.TrimSpace(p.ModelURL)
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		p.Category = nil
	}
}

// Validate checks the product invariants.
func (p Product) Validate() error {
	if p.ID == "" {
		return errors.Wrap(ErrInvalidProduct, "id is required")
	}
	if strings.TrimSpace(p.ID) != p.ID {
		return errors.Wrapf(ErrInvalidProduct, "id %q has surrounding whitespace", p.ID)
	}
	if p.Name == "" {
		return errors.Wrapf(ErrInvalidProduct, "product %q: name is required", p.ID)
	}
	if p.ModelURL == "" {
		return errors.Wrapf(ErrInvalidProduct, "product %q: model url is required", p.ID)
	}
	if !positive(p.Scale) {
		return errors.Wrapf(ErrInvalidProduct, "product %q: scale must be positive", p.ID)
	}
	d := p.Dimensions
	if !positive(d.Width) || !positive(d.Height) || !positive(d.Depth) {
		return errors.Wrapf(ErrInvalidProduct, "product %q: dimensions must be positive", p.ID)
	}
	if p.Price != nil && (*p.Price < 0 || math.IsNaN(*p.Price) || math.IsInf(*p.Price, 0)) {
		return errors.Wrapf(ErrInvalidProduct, "product %q: price must be non-negative", p.ID)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func StringPtr(v string) *string {
	return &v
}

func Float64Ptr(v float64) *float64 {
	return &v
}
