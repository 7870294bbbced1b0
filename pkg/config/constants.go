package config

// EnvPrefix scopes every environment variable consumed by envconfig.
const EnvPrefix = "THREADCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside envconfig tags (tests, tooling).
const (
	EnvAppEnv     = "THREADCART_APP_ENV"
	EnvPort       = "THREADCART_APP_PORT"
	EnvDBDSN      = "THREADCART_DB_DSN"
	EnvRedisURL   = "THREADCART_REDIS_URL"
	EnvJWTSecret  = "THREADCART_JWT_SECRET"
	EnvJWTIssuer  = "THREADCART_JWT_ISSUER"
	EnvJWTExpMins = "THREADCART_JWT_EXPIRATION_MINUTES"
)
