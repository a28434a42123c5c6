package catalog

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/pkg/common"
)

// csvRecord is a flat CSV row. Values stay strings so numbers in hand
// edited sheets are parsed leniently.
type csvRecord struct {
	ID          string `csv:"id"`
	Name        string `csv:"name"`
	Description string `csv:"description"`
	ImageURL    string `csv:"imageUrl"`
	ModelURL    string `csv:"modelUrl"`
	Scale       string `csv:"scale"`
	Width       string `csv:"width"`
	Height      string `csv:"height"`
	Depth       string `csv:"depth"`
	Category    string `csv:"category"`
	Price       string `csv:"price"`
}

func newCSVRecord(p domain.Product) *csvRecord {
	rec := &csvRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		ModelURL:    p.ModelURL,
		Scale:       cast.ToString(p.Scale),
		Width:       cast.ToString(p.Dimensions.Width),
		Height:      cast.ToString(p.Dimensions.Height),
		Depth:       cast.ToString(p.Dimensions.Depth),
		Category:    p.CategoryName(),
	}
	if p.Price != nil {
		rec.Price = cast.ToString(*p.Price)
	}
	return rec
}

func (r *csvRecord) toProduct() (domain.Product, error) {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ModelURL:    r.ModelURL,
	}
	var err error
	fields := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"scale", r.Scale, &p.Scale},
		{"width", r.Width, &p.Dimensions.Width},
		{"height", r.Height, &p.Dimensions.Height},
		{"depth", r.Depth, &p.Dimensions.Depth},
	}
	for _, f := range fields {
		if *f.dst, err = cast.ToFloat64E(strings.TrimSpace(f.value)); err != nil {
			return p, errors.Wrapf(domain.ErrInvalidProduct, "product %q: bad %s %q", r.ID, f.name, f.value)
		}
	}
	if !common.IsEmptyOrNA(r.Category) {
		p.Category = domain.StringPtr(r.Category)
	}
	if price := strings.TrimSpace(r.Price); !common.IsEmptyOrNA(price) {
		v, err := cast.ToFloat64E(price)
		if err != nil {
			return p, errors.Wrapf(domain.ErrInvalidProduct, "product %q: bad price %q", r.ID, r.Price)
		}
		p.Price = domain.Float64Ptr(v)
	}
	return p, nil
}

// parquetRecord is the columnar layout used for parquet seed and export
// files. Pointer fields are optional columns.
type parquetRecord struct {
	ID          string   `parquet:"id"`
	Name        string   `parquet:"name"`
	Description string   `parquet:"description"`
	ImageURL    string   `parquet:"image_url"`
	ModelURL    string   `parquet:"model_url"`
	Scale       float64  `parquet:"scale"`
	Width       float64  `parquet:"width"`
	Height      float64  `parquet:"height"`
	Depth       float64  `parquet:"depth"`
	Category    *string  `parquet:"category"`
	Price       *float64 `parquet:"price"`
}

func newParquetRecord(p domain.Product) parquetRecord {
	p = p.Clone()
	return parquetRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		ModelURL:    p.ModelURL,
		Scale:       p.Scale,
		Width:       p.Dimensions.Width,
		Height:      p.Dimensions.Height,
		Depth:       p.Dimensions.Depth,
		Category:    p.Category,
		Price:       p.Price,
	}
}

func (r parquetRecord) toProduct() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ModelURL:    r.ModelURL,
		Scale:       r.Scale,
		Dimensions:  domain.ProductDimensions{Width: r.Width, Height: r.Height, Depth: r.Depth},
		Category:    r.Category,
		Price:       r.Price,
	}
}
