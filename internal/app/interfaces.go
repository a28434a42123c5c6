package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/arcatalog/config"
	"github.com/talkincode/arcatalog/internal/assets"
	"github.com/talkincode/arcatalog/internal/catalog"
	"gorm.io/gorm"
)

// DBProvider provides database access. DB is nil unless the catalog is
// stored in postgres.
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the product catalog service
type CatalogProvider interface {
	Catalog() *catalog.Service
}

// AssetsProvider provides asset verification
type AssetsProvider interface {
	Assets() *assets.Verifier
	// VerifyAssets checks every catalog asset now and returns the report
	VerifyAssets(ctx context.Context) (assets.Report, error)
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext is what the HTTP handlers depend on
type AppContext interface {
	ConfigProvider
	CatalogProvider
	AssetsProvider

	// SystemInfo samples host and process resource usage
	SystemInfo() SystemInfo
}
