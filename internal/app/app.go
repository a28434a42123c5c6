package app

import (
	"context"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/arcatalog/config"
	"github.com/talkincode/arcatalog/internal/assets"
	"github.com/talkincode/arcatalog/internal/catalog"
	"github.com/talkincode/arcatalog/internal/domain"
	"github.com/talkincode/arcatalog/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	boltRepo  *catalog.BoltRepository
	repo      catalog.Repository
	catalog   *catalog.Service
	verifier  *assets.Verifier
	bus       EventBus.Bus
	sched     *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ AssetsProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig, bus: EventBus.New()}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Catalog() *catalog.Service {
	return a.catalog
}

func (a *Application) Assets() *assets.Verifier {
	return a.verifier
}

// Bus returns the application event bus
func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Init prepares everything the server needs: logging, metrics, the
// catalog and background jobs.
func (a *Application) Init() error {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.InitLogger()

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if err := a.InitCatalog(context.Background()); err != nil {
		return err
	}

	a.initSubscriptions()
	a.initJob()

	// first verification runs once the server is up
	go func() {
		time.Sleep(3 * time.Second)
		a.SchedVerifyAssetsTask()
	}()
	return nil
}

// InitLogger replaces the global zap logger according to the logger config.
func (a *Application) InitLogger() {
	cfg := a.appConfig

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if cfg.System.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// InitCatalog loads the seed, opens the configured repository and builds
// the catalog service and asset verifier. It does not start any job.
func (a *Application) InitCatalog(ctx context.Context) error {
	cfg := a.appConfig

	seed, err := a.loadSeed()
	if err != nil {
		return err
	}

	switch cfg.Database.Type {
	case config.DatabasePostgres:
		db, err := getDatabase(cfg.Database)
		if err != nil {
			return err
		}
		a.gormDB = db
		zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)
		if err := a.MigrateDB(cfg.Database.Debug); err != nil {
			return err
		}
		repo := catalog.NewGormRepository(db)
		if err := a.checkProducts(ctx, repo, seed); err != nil {
			return err
		}
		a.repo = repo
	case config.DatabaseBolt:
		if err := os.MkdirAll(cfg.GetDataDir(), 0o755); err != nil {
			return errors.Wrap(err, "create data dir")
		}
		repo, err := catalog.OpenBoltRepository(cfg.Database.BoltPath)
		if err != nil {
			return err
		}
		a.boltRepo = repo
		if err := a.checkProducts(ctx, repo, seed); err != nil {
			return err
		}
		a.repo = repo
	default:
		repo, err := catalog.NewMemoryRepository(seed)
		if err != nil {
			return err
		}
		a.repo = repo
	}

	latency := cfg.Catalog.Latency
	a.catalog = catalog.NewService(a.repo,
		catalog.WithLatency(catalog.Latency{
			List:       latency.List,
			Get:        latency.Get,
			Categories: latency.Categories,
		}),
		catalog.WithRecorder(metrics.CatalogRecorder{}),
	)

	a.verifier = assets.NewVerifier(assets.Config{
		ModelsPath:   cfg.Web.ModelsPath,
		ModelsDir:    cfg.Web.ModelsDir,
		StaticDir:    cfg.Web.StaticDir,
		Workers:      cfg.Assets.Workers,
		ProbeTimeout: cfg.Assets.ProbeTimeout,
	}, a.bus)

	zap.L().Info("catalog ready",
		zap.String("store", cfg.Database.Type),
		zap.Int("products", len(seed)))
	return nil
}

func getDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	if cfg.Debug {
		db = db.Debug()
	}
	return db, nil
}

func (a *Application) MigrateDB(track bool) (err error) {
	if a.gormDB == nil {
		return nil
	}
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			if err2, ok := err1.(error); ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "migrate catalog tables")
	}
	return nil
}

// DropAll drops the catalog tables. Stores without tables are left alone.
func (a *Application) DropAll() error {
	if a.gormDB == nil {
		return nil
	}
	return errors.Wrap(a.gormDB.Migrator().DropTable(domain.Tables...), "drop catalog tables")
}

// VerifyAssets checks every catalog asset now. Products are read from the
// repository directly so the check skips the simulated latency.
func (a *Application) VerifyAssets(ctx context.Context) (assets.Report, error) {
	if a.repo == nil || a.verifier == nil {
		return assets.Report{}, errors.New("catalog is not initialized")
	}
	products, err := a.repo.All(ctx)
	if err != nil {
		return assets.Report{}, err
	}
	return a.verifier.Verify(ctx, products)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.boltRepo != nil {
		if err := a.boltRepo.Close(); err != nil {
			zap.L().Error("close catalog db", zap.Error(err))
		}
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	_ = metrics.Close()
	_ = zap.L().Sync()
}
