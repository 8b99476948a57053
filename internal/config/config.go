package config

import (
	"crypto/sha256" // Derives the CSRF key when none is configured
	"errors"        // Sentinel configuration errors
	"fmt"           // Error wrapping
	"net/url"       // Frontend origin parsing
	"time"          // Rate limit window

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Defaults and environment binding
	"golang.org/x/crypto/bcrypt"
)

// Supported database drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is required")
	ErrUnknownDBDriver  = errors.New("unknown DB_DRIVER")
	ErrBcryptCost       = errors.New("BCRYPT_COST out of range")
	ErrRateLimit        = errors.New("RATE_LIMIT and RATE_WINDOW must be positive")
)

// Config holds the application configuration. It is built once at startup
// and handed to the components that need it; nothing mutates it afterwards.
type Config struct {
	AppPort     string        // HTTPS listen port
	JWTSecret   string        // Session signing secret (required)
	CSRFSecret  string        // CSRF token signing secret (optional)
	BcryptCost  int           // bcrypt work factor
	DBDriver    string        // sqlite or mysql
	DBDSN       string        // SQLite database file
	DBUser      string        // Database user
	DBPassword  string        // Database password
	DBHost      string        // Database host
	DBPort      string        // Database port
	DBName      string        // Database name
	RedisAddr   string        // Redis server address, empty disables Redis
	RedisPass   string        // Redis password
	RedisDB     int           // Redis database number
	FrontendURL string        // Allowed CORS origin
	TLSCertFile string        // PEM certificate
	TLSKeyFile  string        // PEM private key
	RateLimit   int           // Requests per window per client
	RateWindow  time.Duration // Rate limit window
	IsProd      bool          // Is production environment
}

// LoadConfig loads configuration from the environment, reading a .env file first if present
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.SetDefault("app_port", "8443")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_dsn", "securepay.db")
	v.SetDefault("db_host", "127.0.0.1")
	v.SetDefault("db_port", "3306")
	v.SetDefault("frontend_url", "https://localhost:5173")
	v.SetDefault("tls_cert_file", "certs/cert.pem")
	v.SetDefault("tls_key_file", "certs/key.pem")
	v.SetDefault("rate_limit", 200)
	v.SetDefault("rate_window", 10*time.Minute)
	v.AutomaticEnv() // APP_PORT, JWT_SECRET, ... override the defaults

	return &Config{
		AppPort:     v.GetString("app_port"),
		JWTSecret:   v.GetString("jwt_secret"),
		CSRFSecret:  v.GetString("csrf_secret"),
		BcryptCost:  v.GetInt("bcrypt_cost"),
		DBDriver:    v.GetString("db_driver"),
		DBDSN:       v.GetString("db_dsn"),
		DBUser:      v.GetString("db_user"),
		DBPassword:  v.GetString("db_password"),
		DBHost:      v.GetString("db_host"),
		DBPort:      v.GetString("db_port"),
		DBName:      v.GetString("db_name"),
		RedisAddr:   v.GetString("redis_addr"),
		RedisPass:   v.GetString("redis_pass"),
		RedisDB:     v.GetInt("redis_db"),
		FrontendURL: v.GetString("frontend_url"),
		TLSCertFile: v.GetString("tls_cert_file"),
		TLSKeyFile:  v.GetString("tls_key_file"),
		RateLimit:   v.GetInt("rate_limit"),
		RateWindow:  v.GetDuration("rate_window"),
		IsProd:      v.GetBool("is_prod"),
	}
}

// Validate reports the first configuration problem that must stop startup
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.DBDriver {
	case DriverSQLite, DriverMySQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDBDriver, c.DBDriver)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: %d", ErrBcryptCost, c.BcryptCost)
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return ErrRateLimit
	}
	return nil
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// CSRFKey returns the key authenticating the CSRF cookie. Without CSRF_SECRET the
// key is derived from the session secret, so it never equals it.
func (c *Config) CSRFKey() []byte {
	if c.CSRFSecret != "" {
		return []byte(c.CSRFSecret)
	}
	sum := sha256.Sum256([]byte("csrf:" + c.JWTSecret))
	return sum[:]
}

// TrustedOrigins lists the cross-origin hosts allowed to send state-changing
// requests: the frontend's host[:port], when FRONTEND_URL parses.
func (c *Config) TrustedOrigins() []string {
	u, err := url.Parse(c.FrontendURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
