package config

import (
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations and time zones

	"restaurant_reservation/internal/booking" // Admission parameters

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBDriver   string // Database driver: mysql, postgres or memory
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	DBSSLMode  string // Postgres sslmode
	RedisAddr  string // Redis server address, empty disables Redis
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	RabbitURL  string // RabbitMQ URL, empty disables events
	IsProd     bool   // Is production environment
	LogLevel   string // Logrus level name

	OpenHour      int    // First bookable hour
	CloseHour     int    // Closing hour (not bookable)
	TotalTables   int    // Tables per slot
	SeatsPerTable int    // Max seats per reservation
	Timezone      string // IANA zone for business hours

	LockTTL  time.Duration // Expiry of a Redis slot lock
	LockWait time.Duration // How long to wait for a slot lock
	CacheTTL time.Duration // Lifetime of cached listing pages
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:    getenv("APP_PORT", "3000"),
		DBDriver:   getenv("DB_DRIVER", "mysql"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     os.Getenv("DB_PORT"),
		DBName:     getenv("DB_NAME", "restaurant"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisPass:  os.Getenv("REDIS_PASS"),
		RedisDB:    getint("REDIS_DB", 0),
		RabbitURL:  os.Getenv("RABBITMQ_URL"),
		IsProd:     os.Getenv("IS_PROD") == "true",
		LogLevel:   getenv("LOG_LEVEL", "info"),

		OpenHour:      getint("OPEN_HOUR", 18),
		CloseHour:     getint("CLOSE_HOUR", 23),
		TotalTables:   getint("TOTAL_TABLES", 10),
		SeatsPerTable: getint("SEATS_PER_TABLE", 4),
		Timezone:      getenv("TIMEZONE", "Local"),

		LockTTL:  getdur("LOCK_TTL", 10*time.Second),
		LockWait: getdur("LOCK_WAIT", 5*time.Second),
		CacheTTL: getdur("CACHE_TTL", 60*time.Second),
	}
}

// Booking builds the admission parameters, resolving the configured zone
func (c *Config) Booking() (booking.Config, error) {
	loc, err := time.LoadLocation(c.Timezone) // "Local" and "UTC" are always available
	if err != nil {
		return booking.Config{}, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	bc := booking.Config{
		OpenHour:      c.OpenHour,
		CloseHour:     c.CloseHour,
		TotalTables:   c.TotalTables,
		SeatsPerTable: c.SeatsPerTable,
		Location:      loc,
	}
	return bc, bc.Validate()
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432" // Postgres default port
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, port, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	default:
		port := c.DBPort
		if port == "" {
			port = "3306" // MySQL default port
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&loc=UTC"
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback // Unset or malformed
	}
	return v
}

func getdur(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
