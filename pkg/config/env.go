package config

const EnvPrefix = "ROOMRESERVE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "ROOMRESERVE_APP_ENV"
	EnvPort                   = "ROOMRESERVE_APP_PORT"
	EnvDBDSN                  = "ROOMRESERVE_DB_DSN"
	EnvDBHost                 = "ROOMRESERVE_DB_HOST"
	EnvDBUser                 = "ROOMRESERVE_DB_USER"
	EnvDBName                 = "ROOMRESERVE_DB_NAME"
	EnvDBPassword             = "ROOMRESERVE_DB_PASSWORD"
	EnvDBSQLitePath           = "ROOMRESERVE_DB_SQLITE_PATH"
	EnvUseSQLite              = "ROOMRESERVE_USE_SQLITE"
	EnvRedisURL               = "ROOMRESERVE_REDIS_URL"
	EnvJWTSecret              = "ROOMRESERVE_JWT_SECRET"
	EnvJWTIssuer              = "ROOMRESERVE_JWT_ISSUER"
	EnvJWTExpMins             = "ROOMRESERVE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ROOMRESERVE_REFRESH_TOKEN_TTL_MINUTES"
	EnvAdminEmail             = "ROOMRESERVE_ADMIN_EMAIL"
	EnvAdminPassword          = "ROOMRESERVE_ADMIN_PASSWORD"
	EnvCORSAllowedOrigins     = "ROOMRESERVE_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
