package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
	"gorm.io/gorm"
)

// GormRepository reads the catalog from the catalog_product table.
type GormRepository struct {
	db *gorm.DB
}

var (
	_ Repository = (*GormRepository)(nil)
	_ Seeder     = (*GormRepository)(nil)
)

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) All(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	if err := r.db.WithContext(ctx).Order("sort asc").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	return rows, nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "id %q", id)
	}
	if err != nil {
		return domain.Product{}, errors.Wrapf(err, "query product %q", id)
	}
	return p, nil
}

func (r *GormRepository) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	rows := make([]domain.Product, 0)
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("sort asc").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "query products by category")
	}
	return rows, nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error
	return total, err
}

// Replace swaps the table contents for products in one transaction.
func (r *GormRepository) Replace(ctx context.Context, products []domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, 100).Error
	})
}
