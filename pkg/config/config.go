package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Catalog      CatalogConfig
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
	Env          string `envconfig:"PARFUMERIE_APP_ENV" required:"true"`
	Port         string `envconfig:"PARFUMERIE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PARFUMERIE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PARFUMERIE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PARFUMERIE_DB_DSN"`
	Driver string `envconfig:"PARFUMERIE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PARFUMERIE_DB_HOST"`
	LegacyPort     int    `envconfig:"PARFUMERIE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PARFUMERIE_DB_USER"`
	LegacyPassword string `envconfig:"PARFUMERIE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PARFUMERIE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PARFUMERIE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PARFUMERIE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PARFUMERIE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PARFUMERIE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PARFUMERIE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PARFUMERIE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PARFUMERIE_REDIS_ADDR"`
	Password     string        `envconfig:"PARFUMERIE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PARFUMERIE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PARFUMERIE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PARFUMERIE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PARFUMERIE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PARFUMERIE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PARFUMERIE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PARFUMERIE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PARFUMERIE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PARFUMERIE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PARFUMERIE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PARFUMERIE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PARFUMERIE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PARFUMERIE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PARFUMERIE_ARGON_KEY_LEN" default:"32"`
}

type CatalogConfig struct {
	NewArrivalsLimit     int `envconfig:"PARFUMERIE_CATALOG_NEW_ARRIVALS_LIMIT" default:"10"`
	TrendingLimit        int `envconfig:"PARFUMERIE_CATALOG_TRENDING_LIMIT" default:"8"`
	SimilarLimit         int `envconfig:"PARFUMERIE_CATALOG_SIMILAR_LIMIT" default:"5"`
	RecommendationsLimit int `envconfig:"PARFUMERIE_CATALOG_RECOMMENDATIONS_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PARFUMERIE_AUTO_MIGRATE" default:"false"`
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
