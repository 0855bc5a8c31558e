package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "martlet"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MARTLET_DB_DSN"
	EnvDBHost = "MARTLET_DB_HOST"
	EnvDBUser = "MARTLET_DB_USER"
	EnvDBName = "MARTLET_DB_NAME"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"MARTLET_APP_ENV" required:"true"`
	Port         string `envconfig:"MARTLET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MARTLET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MARTLET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MARTLET_DB_DSN"`

	Host     string `envconfig:"MARTLET_DB_HOST"`
	Port     int    `envconfig:"MARTLET_DB_PORT" default:"5432"`
	User     string `envconfig:"MARTLET_DB_USER"`
	Password string `envconfig:"MARTLET_DB_PASSWORD"`
	Name     string `envconfig:"MARTLET_DB_NAME"`
	SSLMode  string `envconfig:"MARTLET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARTLET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARTLET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARTLET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MARTLET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MARTLET_REDIS_URL"`
	Address      string        `envconfig:"MARTLET_REDIS_ADDR"`
	Password     string        `envconfig:"MARTLET_REDIS_PASSWORD"`
	DB           int           `envconfig:"MARTLET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MARTLET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MARTLET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MARTLET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MARTLET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MARTLET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MARTLET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MARTLET_JWT_ISSUER" default:"martlet"`
	ExpirationMinutes int    `envconfig:"MARTLET_JWT_EXPIRATION_MINUTES" default:"60"`
	SessionTTLMinutes int    `envconfig:"MARTLET_SESSION_TTL_MINUTES" default:"1440"`
}

// SessionTTL returns the server-side session lifetime.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MARTLET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MARTLET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MARTLET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MARTLET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MARTLET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MARTLET_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit     int           `envconfig:"MARTLET_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MARTLET_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MARTLET_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit  int           `envconfig:"MARTLET_AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MARTLET_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	IdempotencyTTLDays int           `envconfig:"MARTLET_IDEMPOTENCY_TTL_DAYS" default:"7"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MARTLET_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for _, pair := range []struct {
		env   string
		value string
	}{
		{EnvDBHost, db.Host},
		{EnvDBUser, db.User},
		{EnvDBName, db.Name},
	} {
		if pair.value == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
