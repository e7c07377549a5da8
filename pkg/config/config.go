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
	Cookie        CookieConfig
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
	Env          string `envconfig:"REPLYHUB_APP_ENV" required:"true"`
	Port         string   `envconfig:"REPLYHUB_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"REPLYHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"REPLYHUB_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"REPLYHUB_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REPLYHUB_DB_DSN"`
	Driver string `envconfig:"REPLYHUB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"REPLYHUB_DB_HOST"`
	Port     int    `envconfig:"REPLYHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"REPLYHUB_DB_USER"`
	Password string `envconfig:"REPLYHUB_DB_PASSWORD"`
	Name     string `envconfig:"REPLYHUB_DB_NAME"`
	SSLMode  string `envconfig:"REPLYHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REPLYHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REPLYHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REPLYHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REPLYHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REPLYHUB_REDIS_URL"`
	Address      string        `envconfig:"REPLYHUB_REDIS_ADDR"`
	Password     string        `envconfig:"REPLYHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"REPLYHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REPLYHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REPLYHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REPLYHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REPLYHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REPLYHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"REPLYHUB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"REPLYHUB_JWT_ISSUER" default:"replyhub"`
	ExpirationMinutes      int    `envconfig:"REPLYHUB_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"REPLYHUB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// CookieConfig controls the session cookie written on sign-in and refresh.
type CookieConfig struct {
	MaxAge time.Duration `envconfig:"REPLYHUB_SESSION_COOKIE_MAX_AGE" default:"24h"`
	Secure bool          `envconfig:"REPLYHUB_SESSION_COOKIE_SECURE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REPLYHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REPLYHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REPLYHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REPLYHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REPLYHUB_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	SigninWindow     time.Duration `envconfig:"REPLYHUB_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SigninEmailLimit int           `envconfig:"REPLYHUB_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SigninIPLimit    int           `envconfig:"REPLYHUB_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"REPLYHUB_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"REPLYHUB_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"REPLYHUB_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"REPLYHUB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"REPLYHUB_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
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
