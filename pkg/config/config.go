package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "shopkart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHOPKART_DB_DSN"
	EnvDBHost = "SHOPKART_DB_HOST"
	EnvDBUser = "SHOPKART_DB_USER"
	EnvDBName = "SHOPKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Orders   OrdersConfig
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
	Env          string `envconfig:"SHOPKART_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPKART_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPKART_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SHOPKART_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPKART_DB_DSN"`
	Driver string `envconfig:"SHOPKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPKART_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPKART_DB_USER"`
	LegacyPassword string `envconfig:"SHOPKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPKART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPKART_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPKART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPKART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPKART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPKART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPKART_ARGON_KEY_LEN" default:"32"`
}

type OrdersConfig struct {
	DefaultDeliveryDays int           `envconfig:"SHOPKART_ORDERS_DEFAULT_DELIVERY_DAYS" default:"5"`
	PlacementLockTTL    time.Duration `envconfig:"SHOPKART_ORDERS_PLACEMENT_LOCK_TTL" default:"15s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
