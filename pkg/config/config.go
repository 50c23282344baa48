package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "procureflow"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "PROCUREFLOW_APP_ENV"
	EnvPort     = "PROCUREFLOW_APP_PORT"
	EnvDBDSN    = "PROCUREFLOW_DB_DSN"
	EnvDBHost   = "PROCUREFLOW_DB_HOST"
	EnvDBUser   = "PROCUREFLOW_DB_USER"
	EnvDBName   = "PROCUREFLOW_DB_NAME"
	EnvRedisURL = "PROCUREFLOW_REDIS_URL"

	EnvJWTSecret  = "PROCUREFLOW_JWT_SECRET"
	EnvJWTIssuer  = "PROCUREFLOW_JWT_ISSUER"
	EnvJWTExpMins = "PROCUREFLOW_JWT_EXPIRATION_MINUTES"

	EnvSessionTTLMinutes = "PROCUREFLOW_SESSION_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Flags    FeatureFlagsConfig
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
	Env          string `envconfig:"PROCUREFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"PROCUREFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PROCUREFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PROCUREFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PROCUREFLOW_DB_DSN"`
	Driver string `envconfig:"PROCUREFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PROCUREFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"PROCUREFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PROCUREFLOW_DB_USER"`
	LegacyPassword string `envconfig:"PROCUREFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"PROCUREFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"PROCUREFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PROCUREFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PROCUREFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PROCUREFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PROCUREFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PROCUREFLOW_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"PROCUREFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PROCUREFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PROCUREFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PROCUREFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PROCUREFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PROCUREFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PROCUREFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PROCUREFLOW_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"PROCUREFLOW_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the Redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PROCUREFLOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PROCUREFLOW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PROCUREFLOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PROCUREFLOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PROCUREFLOW_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PROCUREFLOW_AUTO_MIGRATE" default:"false"`
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
