package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DatabaseMemory   = "memory"
	DatabasePostgres = "postgres"
	DatabaseBolt     = "bolt"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir" env:"ARCATALOG_WORKDIR"`
	Debug    bool   `yaml:"debug" env:"ARCATALOG_DEBUG"`
}

type WebConfig struct {
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	BaseURL         string        `yaml:"base_url" env:"BASE_URL"`
	ModelsPath      string        `yaml:"models_path" env:"MODELS_PATH"`
	ModelsDir       string        `yaml:"models_dir" env:"ARCATALOG_MODELS_DIR"`
	StaticDir       string        `yaml:"static_dir" env:"ARCATALOG_STATIC_DIR"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowOrigins    []string      `yaml:"allow_origins" env:"ARCATALOG_ALLOW_ORIGINS" envSeparator:","`
}

type DBConfig struct {
	Type     string `yaml:"type" env:"ARCATALOG_DB_TYPE"`
	Host     string `yaml:"host" env:"ARCATALOG_DB_HOST"`
	Port     int    `yaml:"port" env:"ARCATALOG_DB_PORT"`
	Name     string `yaml:"name" env:"ARCATALOG_DB_NAME"`
	User     string `yaml:"user" env:"ARCATALOG_DB_USER"`
	Passwd   string `yaml:"passwd" env:"ARCATALOG_DB_PASSWD"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
	BoltPath string `yaml:"bolt_path"`
}

type LatencyConfig struct {
	List       time.Duration `yaml:"list"`
	Get        time.Duration `yaml:"get"`
	Categories time.Duration `yaml:"categories"`
}

type CatalogConfig struct {
	SeedFile string        `yaml:"seed_file" env:"ARCATALOG_SEED_FILE"`
	Latency  LatencyConfig `yaml:"latency"`
}

type AssetsConfig struct {
	VerifyCron   string        `yaml:"verify_cron"`
	Workers      int           `yaml:"workers"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" env:"ARCATALOG_LOG_MODE"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig     `yaml:"system"`
	Web      WebConfig     `yaml:"web"`
	Database DBConfig      `yaml:"database"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Assets   AssetsConfig  `yaml:"assets"`
	Logger   LogConfig     `yaml:"logger"`
}

// DefaultAppConfig mirrors the production deployment defaults.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "arcatalog",
			Location: "UTC",
			Workdir:  "/var/arcatalog",
		},
		Web: WebConfig{
			Host:            "127.0.0.1",
			Port:            3000,
			BaseURL:         "http://localhost:3000",
			ModelsPath:      "/models",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowOrigins:    []string{"*"},
		},
		Database: DBConfig{
			Type:     DatabaseMemory,
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "arcatalog",
			User:     "postgres",
			MaxConn:  20,
			IdleConn: 5,
		},
		Catalog: CatalogConfig{
			Latency: LatencyConfig{
				List: 300 * time.Millisecond,
				Get:  200 * time.Millisecond,
			},
		},
		Assets: AssetsConfig{
			VerifyCron:   "@every 10m",
			Workers:      8,
			ProbeTimeout: 5 * time.Second,
		},
		Logger: LogConfig{
			Mode: "development",
		},
	}
}

// LoadConfig reads the yaml file at cfile when given, then applies
// environment overrides and fills derived paths.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyDerived() {
	c.Web.ModelsPath = "/" + strings.Trim(path.Clean("/"+c.Web.ModelsPath), "/")
	c.Web.BaseURL = strings.TrimRight(c.Web.BaseURL, "/")
	if c.Web.StaticDir == "" {
		c.Web.StaticDir = filepath.Join(c.System.Workdir, "public")
	}
	if c.Web.ModelsDir == "" {
		c.Web.ModelsDir = filepath.Join(c.Web.StaticDir, strings.TrimPrefix(c.Web.ModelsPath, "/"))
	}
	if c.Database.BoltPath == "" {
		c.Database.BoltPath = filepath.Join(c.GetDataDir(), "catalog.db")
	}
	if c.Logger.Filename == "" {
		c.Logger.Filename = filepath.Join(c.GetLogDir(), "arcatalog.log")
	}
	c.Database.Type = strings.ToLower(strings.TrimSpace(c.Database.Type))
}

// Validate rejects configurations the service cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case DatabaseMemory, DatabasePostgres, DatabaseBolt:
	default:
		return errors.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return errors.Errorf("invalid web port %d", c.Web.Port)
	}
	if c.Catalog.Latency.List < 0 || c.Catalog.Latency.Get < 0 || c.Catalog.Latency.Categories < 0 {
		return errors.New("catalog latency must not be negative")
	}
	if c.Assets.Workers <= 0 {
		return errors.Errorf("invalid assets workers %d", c.Assets.Workers)
	}
	return nil
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

// Addr returns the host:port the web server listens on.
func (c *AppConfig) Addr() string {
	return c.Web.Addr()
}

func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PostgresDSN builds the gorm postgres connection string.
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.Host, c.Port, c.User, c.Passwd, c.Name)
}
