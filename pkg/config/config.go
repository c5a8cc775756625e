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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Admin        AdminConfig
	Secrets      SecretsConfig
	Checkout     CheckoutConfig
	RateLimits   RateLimitsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"PAYVAULT_APP_ENV" required:"true"`
	Port         string `envconfig:"PAYVAULT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAYVAULT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAYVAULT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PAYVAULT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PAYVAULT_DB_DSN"`
	Driver string `envconfig:"PAYVAULT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAYVAULT_DB_HOST"`
	LegacyPort     int    `envconfig:"PAYVAULT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAYVAULT_DB_USER"`
	LegacyPassword string `envconfig:"PAYVAULT_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAYVAULT_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAYVAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAYVAULT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAYVAULT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAYVAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAYVAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PAYVAULT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PAYVAULT_REDIS_ADDR"`
	Password     string        `envconfig:"PAYVAULT_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAYVAULT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAYVAULT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAYVAULT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAYVAULT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAYVAULT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAYVAULT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"PAYVAULT_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"PAYVAULT_JWT_ISSUER" required:"true"`
}

// AdminConfig names the principals holding the admin capability. The role
// claim on the access token is honored as well; see internal/authz.
type AdminConfig struct {
	Emails []string `envconfig:"PAYVAULT_ADMIN_EMAILS"`
}

// SecretsConfig carries the deployment key used to seal stored provider
// credentials at rest. Base64, 32 bytes once decoded.
type SecretsConfig struct {
	ConfigKey string `envconfig:"PAYVAULT_CONFIG_ENCRYPTION_KEY" required:"true"`
}

type CheckoutConfig struct {
	ProviderTimeout time.Duration `envconfig:"PAYVAULT_CHECKOUT_PROVIDER_TIMEOUT" default:"30s"`
}

// RateLimitsConfig throttles the abuse-prone write routes. A limit of zero
// disables the corresponding window.
type RateLimitsConfig struct {
	RegisterLimit  int           `envconfig:"PAYVAULT_RATE_LIMIT_REGISTER" default:"10"`
	RegisterWindow time.Duration `envconfig:"PAYVAULT_RATE_LIMIT_REGISTER_WINDOW" default:"1m"`
	CheckoutLimit  int           `envconfig:"PAYVAULT_RATE_LIMIT_CHECKOUT" default:"30"`
	CheckoutWindow time.Duration `envconfig:"PAYVAULT_RATE_LIMIT_CHECKOUT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PAYVAULT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PAYVAULT_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PAYVAULT_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PAYVAULT_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PAYVAULT_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PaymentsTopic        string `envconfig:"PAYVAULT_PUBSUB_PAYMENTS_TOPIC" default:"pv-payment-events"`
	PaymentsSubscription string `envconfig:"PAYVAULT_PUBSUB_PAYMENTS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PAYVAULT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PAYVAULT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PAYVAULT_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
