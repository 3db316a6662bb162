package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"BLOOMBAY_APP_ENV" required:"true"`
	Port         string `envconfig:"BLOOMBAY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BLOOMBAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLOOMBAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BLOOMBAY_DB_DSN"`
	Driver string `envconfig:"BLOOMBAY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BLOOMBAY_DB_HOST"`
	Port     int    `envconfig:"BLOOMBAY_DB_PORT" default:"5432"`
	User     string `envconfig:"BLOOMBAY_DB_USER"`
	Password string `envconfig:"BLOOMBAY_DB_PASSWORD"`
	Name     string `envconfig:"BLOOMBAY_DB_NAME"`
	SSLMode  string `envconfig:"BLOOMBAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLOOMBAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLOOMBAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLOOMBAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLOOMBAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a Postgres DSN from the discrete fields when an explicit
// DSN is not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either BLOOMBAY_DB_DSN or host/user/name settings are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"BLOOMBAY_REDIS_URL"`
	Address      string        `envconfig:"BLOOMBAY_REDIS_ADDR"`
	Password     string        `envconfig:"BLOOMBAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLOOMBAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLOOMBAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLOOMBAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLOOMBAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLOOMBAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLOOMBAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BLOOMBAY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BLOOMBAY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BLOOMBAY_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BLOOMBAY_AUTO_MIGRATE" default:"false"`
}
