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
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Momo         MomoConfig
	SMTP         SMTPConfig
	Notify       NotifyConfig
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
	Env          string `envconfig:"FOODCOURT_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODCOURT_APP_PORT" default:"8080"`
	BaseURL      string `envconfig:"FOODCOURT_APP_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"FOODCOURT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODCOURT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODCOURT_DB_DSN"`
	Driver string `envconfig:"FOODCOURT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODCOURT_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODCOURT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODCOURT_DB_USER"`
	LegacyPassword string `envconfig:"FOODCOURT_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODCOURT_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODCOURT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODCOURT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODCOURT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODCOURT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODCOURT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODCOURT_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"FOODCOURT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODCOURT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODCOURT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODCOURT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODCOURT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FOODCOURT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOODCOURT_JWT_ISSUER" default:"foodcourt"`
	ExpirationMinutes int    `envconfig:"FOODCOURT_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODCOURT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODCOURT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODCOURT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODCOURT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODCOURT_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODCOURT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"FOODCOURT_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CatalogTopic        string `envconfig:"FOODCOURT_PUBSUB_CATALOG_TOPIC" default:"fc-catalog-events"`
	CatalogSubscription string `envconfig:"FOODCOURT_PUBSUB_CATALOG_SUBSCRIPTION" default:"fc-catalog-events-worker"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FOODCOURT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FOODCOURT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FOODCOURT_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type MomoConfig struct {
	Endpoint    string        `envconfig:"FOODCOURT_MOMO_ENDPOINT" default:"https://test-payment.momo.vn/v2/gateway/api/create"`
	PartnerCode string        `envconfig:"FOODCOURT_MOMO_PARTNER_CODE" required:"true"`
	AccessKey   string        `envconfig:"FOODCOURT_MOMO_ACCESS_KEY" required:"true"`
	SecretKey   string        `envconfig:"FOODCOURT_MOMO_SECRET_KEY" required:"true"`
	PartnerName string        `envconfig:"FOODCOURT_MOMO_PARTNER_NAME" default:"FoodCourt"`
	StoreID     string        `envconfig:"FOODCOURT_MOMO_STORE_ID" default:"FoodCourtStore"`
	RequestType string        `envconfig:"FOODCOURT_MOMO_REQUEST_TYPE" default:"captureWallet"`
	Timeout     time.Duration `envconfig:"FOODCOURT_MOMO_TIMEOUT" default:"10s"`
}

type SMTPConfig struct {
	Host     string `envconfig:"FOODCOURT_SMTP_HOST"`
	Port     int    `envconfig:"FOODCOURT_SMTP_PORT" default:"587"`
	Username string `envconfig:"FOODCOURT_SMTP_USERNAME"`
	Password string `envconfig:"FOODCOURT_SMTP_PASSWORD"`
	From     string `envconfig:"FOODCOURT_SMTP_FROM" default:"no-reply@foodcourt.local"`
}

type NotifyConfig struct {
	MaxAttempts int           `envconfig:"FOODCOURT_NOTIFY_MAX_ATTEMPTS" default:"3"`
	RetryDelay  time.Duration `envconfig:"FOODCOURT_NOTIFY_RETRY_DELAY" default:"5s"`
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
