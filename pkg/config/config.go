package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Admin         AdminConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.resolve(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if ttl := cfg.JWT.RefreshTokenTTL(); ttl <= time.Duration(cfg.JWT.ExpirationMinutes)*time.Minute {
		return nil, fmt.Errorf("%s must exceed %s", EnvRefreshTokenTTLMinutes, EnvJWTExpMins)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ROOMRESERVE_APP_ENV" required:"true"`
	Port         string `envconfig:"ROOMRESERVE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROOMRESERVE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ROOMRESERVE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ROOMRESERVE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ROOMRESERVE_DB_DSN"`
	Driver string `envconfig:"ROOMRESERVE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROOMRESERVE_DB_HOST"`
	LegacyPort     int    `envconfig:"ROOMRESERVE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROOMRESERVE_DB_USER"`
	LegacyPassword string `envconfig:"ROOMRESERVE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROOMRESERVE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROOMRESERVE_DB_SSLMODE" default:"disable"`

	// SQLitePath is used instead of the DSN when the sqlite feature flag is on.
	SQLitePath string `envconfig:"ROOMRESERVE_DB_SQLITE_PATH" default:"roomreserve.db"`

	MaxOpenConns    int           `envconfig:"ROOMRESERVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROOMRESERVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROOMRESERVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROOMRESERVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs queries slower than this at warn; zero disables query logging.
	SlowQueryThreshold time.Duration `envconfig:"ROOMRESERVE_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROOMRESERVE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROOMRESERVE_REDIS_ADDR"`
	Password     string        `envconfig:"ROOMRESERVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROOMRESERVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROOMRESERVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROOMRESERVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROOMRESERVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROOMRESERVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROOMRESERVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ROOMRESERVE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ROOMRESERVE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ROOMRESERVE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ROOMRESERVE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ROOMRESERVE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ROOMRESERVE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ROOMRESERVE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ROOMRESERVE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ROOMRESERVE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"ROOMRESERVE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"ROOMRESERVE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"ROOMRESERVE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"ROOMRESERVE_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"ROOMRESERVE_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"ROOMRESERVE_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ROOMRESERVE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ROOMRESERVE_AUTO_MIGRATE" default:"false"`
}

// AdminConfig holds the optional bootstrap administrator account.
type AdminConfig struct {
	Email      string `envconfig:"ROOMRESERVE_ADMIN_EMAIL"`
	Password   string `envconfig:"ROOMRESERVE_ADMIN_PASSWORD"`
	Name       string `envconfig:"ROOMRESERVE_ADMIN_NAME" default:"Admin User"`
	Department string `envconfig:"ROOMRESERVE_ADMIN_DEPARTMENT" default:"IT"`
}

// Enabled reports whether both bootstrap credentials are present.
func (a AdminConfig) Enabled() bool {
	return strings.TrimSpace(a.Email) != "" && a.Password != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ROOMRESERVE_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// resolve settles the driver and DSN. SQLite needs only a file path; Postgres
// takes ROOMRESERVE_DB_DSN or assembles one from the discrete host/user/name vars.
func (db *DBConfig) resolve(useSQLite bool) error {
	if useSQLite {
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required when %s is set", EnvDBSQLitePath, EnvUseSQLite)
		}
		db.Driver = DriverSQLite
		return nil
	}
	switch db.Driver {
	case "", DriverPostgres:
		db.Driver = DriverPostgres
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	if db.DSN == "" {
		dsn, err := db.discreteDSN()
		if err != nil {
			return err
		}
		db.DSN = dsn
	}
	return nil
}

func (db DBConfig) discreteDSN() (string, error) {
	provided := map[string]string{EnvDBHost: db.LegacyHost, EnvDBUser: db.LegacyUser, EnvDBName: db.LegacyName}
	var missing []string
	for _, env := range legacyDBEnvVars {
		if provided[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	user := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		user = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   net.JoinHostPort(db.LegacyHost, strconv.Itoa(db.LegacyPort)),
		Path:   db.LegacyName,
	}
	if db.LegacySSLMode != "" {
		dsn.RawQuery = url.Values{"sslmode": {db.LegacySSLMode}}.Encode()
	}
	return dsn.String(), nil
}
