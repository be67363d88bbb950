package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the service.
type Config struct {
	Env  string
	Port string

	DBDriver        string // "postgres" or "sqlite"
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PoolStatsSpec   string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	TransferTimeout time.Duration
	CORSOrigins     string
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the configuration from the environment, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		Env:  GetEnv("ENV", "development"),
		Port: GetEnv("PORT", "3001"),

		DBDriver:        GetEnv("DB_DRIVER", "postgres"),
		DBHost:          GetEnv("DB_HOST", "localhost"),
		DBPort:          GetEnv("DB_PORT", "5432"),
		DBUser:          GetEnv("DB_USER", "postgres"),
		DBPassword:      GetEnv("DB_PASSWORD", "postgres"),
		DBName:          GetEnv("DB_NAME", "gigpay"),
		DBSSLMode:       GetEnv("DB_SSLMODE", "disable"),
		SQLitePath:      GetEnv("SQLITE_PATH", "gigpay.sqlite3"),
		MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		PoolStatsSpec:   GetEnv("DB_POOL_STATS_SPEC", "@every 1m"),

		RedisHost:     GetEnv("REDIS_HOST", "localhost"),
		RedisPort:     GetEnv("REDIS_PORT", "6379"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       GetIntEnv("REDIS_DB", 0),
		CacheTTL:      GetDurationEnv("CACHE_TTL", 10*time.Minute),

		JWTSecret: GetEnv("JWT_SECRET", "gigpay-dev-secret"),
		TokenTTL:  GetDurationEnv("TOKEN_TTL", 24*time.Hour),

		TransferTimeout: GetDurationEnv("TRANSFER_TIMEOUT", 5*time.Second),
		CORSOrigins:     GetEnv("CORS_ORIGINS", "http://localhost:5173"),
	}
}

// PostgresDSN builds the connection string for the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
