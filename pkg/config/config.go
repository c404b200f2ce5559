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

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "MOODPATH_DB_DSN"
	EnvDBHost = "MOODPATH_DB_HOST"
	EnvDBUser = "MOODPATH_DB_USER"
	EnvDBName = "MOODPATH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Lifecycle     LifecycleConfig
	Sendgrid      SendgridConfig
	Storage       StorageConfig
	Prediction    PredictionConfig
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
	Env          string `envconfig:"MOODPATH_APP_ENV" required:"true"`
	Port         string `envconfig:"MOODPATH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MOODPATH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOODPATH_LOG_WARN_STACK" default:"false"`
	BaseURL      string `envconfig:"MOODPATH_APP_BASE_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MOODPATH_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MOODPATH_DB_DSN"`
	Driver string `envconfig:"MOODPATH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOODPATH_DB_HOST"`
	LegacyPort     int    `envconfig:"MOODPATH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOODPATH_DB_USER"`
	LegacyPassword string `envconfig:"MOODPATH_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOODPATH_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOODPATH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOODPATH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOODPATH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOODPATH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOODPATH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOODPATH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOODPATH_REDIS_ADDR"`
	Password     string        `envconfig:"MOODPATH_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOODPATH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOODPATH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOODPATH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOODPATH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOODPATH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOODPATH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MOODPATH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MOODPATH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MOODPATH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MOODPATH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MOODPATH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MOODPATH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MOODPATH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MOODPATH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MOODPATH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MOODPATH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MOODPATH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MOODPATH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MOODPATH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MOODPATH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MOODPATH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOODPATH_AUTO_MIGRATE" default:"false"`
}

// LifecycleConfig tunes the account deactivation workflow.
type LifecycleConfig struct {
	GracePeriod      time.Duration `envconfig:"MOODPATH_LIFECYCLE_GRACE_PERIOD" default:"24h"`
	ReactivateFloor  time.Duration `envconfig:"MOODPATH_LIFECYCLE_REACTIVATE_FLOOR" default:"24h"`
	SweepInterval    time.Duration `envconfig:"MOODPATH_LIFECYCLE_SWEEP_INTERVAL" default:"1h"`
	SweepLockTTL     time.Duration `envconfig:"MOODPATH_LIFECYCLE_SWEEP_LOCK_TTL" default:"55m"`
	ReactivationLink string        `envconfig:"MOODPATH_LIFECYCLE_REACTIVATION_LINK" default:"http://localhost:3000/reactivate"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"MOODPATH_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"MOODPATH_SENDGRID_FROM_EMAIL"`
	FromName    string `envconfig:"MOODPATH_SENDGRID_FROM_NAME" default:"Moodpath"`
}

// StorageConfig points media uploads at an S3 bucket.
type StorageConfig struct {
	Bucket          string        `envconfig:"MOODPATH_S3_BUCKET"`
	Region          string        `envconfig:"MOODPATH_S3_REGION" default:"us-east-1"`
	UploadURLExpiry time.Duration `envconfig:"MOODPATH_S3_UPLOAD_URL_EXPIRY" default:"15m"`
	MaxUploadMB     int           `envconfig:"MOODPATH_MAX_UPLOAD_MB" default:"25"`
}

// PredictionConfig locates the external mood prediction process.
type PredictionConfig struct {
	Command string `envconfig:"MOODPATH_PREDICTION_COMMAND"`
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
