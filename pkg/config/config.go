package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"THREADCART_APP_ENV" required:"true"`
	Port         string `envconfig:"THREADCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"THREADCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THREADCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"THREADCART_DB_DSN"`
	Driver string `envconfig:"THREADCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"THREADCART_DB_HOST"`
	LegacyPort     int    `envconfig:"THREADCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"THREADCART_DB_USER"`
	LegacyPassword string `envconfig:"THREADCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"THREADCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"THREADCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"THREADCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"THREADCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"THREADCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"THREADCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN fills DSN from the legacy host/port/user variables when it is not
// provided directly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either THREADCART_DB_DSN or THREADCART_DB_HOST/USER/NAME must be set")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.LegacyUser, d.LegacyPassword),
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   "/" + d.LegacyName,
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"THREADCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"THREADCART_REDIS_ADDR"`
	Password     string        `envconfig:"THREADCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"THREADCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THREADCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THREADCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THREADCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THREADCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THREADCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"THREADCART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"THREADCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"THREADCART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"THREADCART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"THREADCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"THREADCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"THREADCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"THREADCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"THREADCART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"THREADCART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"THREADCART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"THREADCART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"THREADCART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"THREADCART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"THREADCART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"THREADCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"THREADCART_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"THREADCART_CRON_INTERVAL" default:"1h"`
	OrderExpiryDays int           `envconfig:"THREADCART_CRON_ORDER_EXPIRY_DAYS" default:"10"`
	MetricsPort     string        `envconfig:"THREADCART_CRON_METRICS_PORT" default:"9102"`
}
