package config

// EnvPrefix is handed to envconfig; every field also carries its absolute
// variable name so lookups never depend on struct nesting.
const EnvPrefix = "CAFE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "CAFE_APP_ENV"
	EnvPort         = "CAFE_APP_PORT"
	EnvLogLevel     = "CAFE_APP_LOG_LEVEL"
	EnvLogWarnStack = "CAFE_APP_LOG_WARN_STACK"
	EnvTimezone     = "CAFE_APP_TIMEZONE"
	EnvCORSOrigins  = "CAFE_APP_CORS_ORIGINS"

	EnvDBDSN      = "CAFE_DB_DSN"
	EnvDBHost     = "CAFE_DB_HOST"
	EnvDBPort     = "CAFE_DB_PORT"
	EnvDBUser     = "CAFE_DB_USER"
	EnvDBPassword = "CAFE_DB_PASSWORD"
	EnvDBName     = "CAFE_DB_NAME"
	EnvDBSSLMode  = "CAFE_DB_SSLMODE"

	EnvRedisURL = "CAFE_REDIS_URL"

	EnvJWTSecret              = "CAFE_JWT_SECRET"
	EnvJWTIssuer              = "CAFE_JWT_ISSUER"
	EnvJWTExpMins             = "CAFE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "CAFE_REFRESH_TOKEN_TTL_MINUTES"

	EnvRabbitMQURL      = "CAFE_RABBITMQ_URL"
	EnvRabbitMQExchange = "CAFE_RABBITMQ_EXCHANGE"

	EnvCronInterval = "CAFE_CRON_INTERVAL"
	EnvCronLockTTL  = "CAFE_CRON_LOCK_TTL"

	EnvBootstrapAdminUsername = "CAFE_BOOTSTRAP_ADMIN_USERNAME"
	EnvBootstrapAdminEmail    = "CAFE_BOOTSTRAP_ADMIN_EMAIL"
	EnvBootstrapAdminPassword = "CAFE_BOOTSTRAP_ADMIN_PASSWORD"

	EnvAutoMigrate = "CAFE_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
