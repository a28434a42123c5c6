package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/catalog"
	"github.com/talkincode/arcatalog/internal/domain"
	"go.uber.org/zap"
)

// loadSeed returns the configured seed catalog, or the built-in one.
func (a *Application) loadSeed() ([]domain.Product, error) {
	seedFile := a.appConfig.Catalog.SeedFile
	if seedFile == "" {
		return catalog.PrepareCatalog(catalog.DefaultProducts())
	}
	products, err := catalog.LoadSeedFile(seedFile)
	if err != nil {
		return nil, err
	}
	zap.L().Info("loaded seed catalog",
		zap.String("file", seedFile),
		zap.Int("products", len(products)))
	return products, nil
}

// checkProducts seeds a persistent store that holds no products yet. A
// store that already has a catalog is left untouched.
func (a *Application) checkProducts(ctx context.Context, store catalog.Seeder, seed []domain.Product) error {
	count, err := store.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "count stored products")
	}
	if count > 0 {
		zap.L().Info("catalog store already seeded", zap.Int64("products", count))
		return nil
	}
	if err := store.Replace(ctx, seed); err != nil {
		return errors.Wrap(err, "seed catalog store")
	}
	zap.L().Info("initialized catalog store", zap.Int("products", len(seed)))
	return nil
}

// ReseedProducts replaces the stored catalog with the seed. Only
// persistent stores can be reseeded. With drop set, the catalog tables are
// dropped and migrated again first, picking up schema changes.
func (a *Application) ReseedProducts(ctx context.Context, drop bool) error {
	store, ok := a.repo.(catalog.Seeder)
	if !ok {
		return errors.Errorf("%s store cannot be reseeded", a.appConfig.Database.Type)
	}
	seed, err := a.loadSeed()
	if err != nil {
		return err
	}
	if drop {
		if err := a.DropAll(); err != nil {
			return err
		}
		if err := a.MigrateDB(a.appConfig.Database.Debug); err != nil {
			return err
		}
		zap.L().Info("catalog tables recreated")
	}
	return store.Replace(ctx, seed)
}
