package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FENSTRA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	Documents     DocumentsConfig
	Invoices      InvoicesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FENSTRA_APP_ENV" required:"true"`
	Port         string `envconfig:"FENSTRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FENSTRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FENSTRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FENSTRA_DB_DSN"`
	Driver string `envconfig:"FENSTRA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FENSTRA_DB_HOST"`
	Port     int    `envconfig:"FENSTRA_DB_PORT" default:"5432"`
	User     string `envconfig:"FENSTRA_DB_USER"`
	Password string `envconfig:"FENSTRA_DB_PASSWORD"`
	Name     string `envconfig:"FENSTRA_DB_NAME"`
	SSLMode  string `envconfig:"FENSTRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FENSTRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FENSTRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FENSTRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FENSTRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("either FENSTRA_DB_DSN or host/user/name parts are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   "/" + db.Name,
	}
	q := u.Query()
	q.Set("sslmode", db.SSLMode)
	u.RawQuery = q.Encode()
	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FENSTRA_REDIS_URL"`
	Address      string        `envconfig:"FENSTRA_REDIS_ADDR"`
	Password     string        `envconfig:"FENSTRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FENSTRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FENSTRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FENSTRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FENSTRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FENSTRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FENSTRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FENSTRA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FENSTRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FENSTRA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FENSTRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FENSTRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FENSTRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FENSTRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FENSTRA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FENSTRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FENSTRA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FENSTRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FENSTRA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FENSTRA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FENSTRA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FENSTRA_AUTO_MIGRATE" default:"false"`
	SeedCatalog bool `envconfig:"FENSTRA_SEED_CATALOG" default:"false"`
}

type CatalogConfig struct {
	SeedCSVPath string `envconfig:"FENSTRA_CATALOG_SEED_CSV" default:"data/options.csv"`
}

type DocumentsConfig struct {
	ChromePath    string        `envconfig:"FENSTRA_CHROME_PATH"`
	RenderTimeout time.Duration `envconfig:"FENSTRA_PDF_RENDER_TIMEOUT" default:"30s"`
}

type InvoicesConfig struct {
	PaymentTermDays int `envconfig:"FENSTRA_INVOICE_PAYMENT_TERM_DAYS" default:"14"`
}
