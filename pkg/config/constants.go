package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without one.
const EnvPrefix = "FOODCOURT"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv    = "FOODCOURT_APP_ENV"
	EnvPort      = "FOODCOURT_APP_PORT"
	EnvDBDSN     = "FOODCOURT_DB_DSN"
	EnvDBHost    = "FOODCOURT_DB_HOST"
	EnvDBUser    = "FOODCOURT_DB_USER"
	EnvDBName    = "FOODCOURT_DB_NAME"
	EnvRedisURL  = "FOODCOURT_REDIS_URL"
	EnvJWTSecret = "FOODCOURT_JWT_SECRET"

	EnvMomoPartnerCode = "FOODCOURT_MOMO_PARTNER_CODE"
	EnvMomoAccessKey   = "FOODCOURT_MOMO_ACCESS_KEY"
	EnvMomoSecretKey   = "FOODCOURT_MOMO_SECRET_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
