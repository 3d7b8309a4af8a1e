package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment (and .env when present).
type Config struct {
	Env             string
	Port            string
	GinMode         string
	DBDriver        string
	DBDSN           string
	DBMaxOpenConns  int
	JWTSecret       string
	JWTTTL          time.Duration
	Timezone        string
	TaskGracePeriod time.Duration
	WorkdayStart    string
	OfficeLat       float64
	OfficeLng       float64
	OfficeRadius    float64
	MaxAttempts     int
	GeocoderURL     string
	GeocoderTimeout time.Duration
	CORSOrigin      string
	RateLimitRPS    float64
	RateLimitBurst  int
	LogLevel        string
	LogFormat       string
	CustomerPrefix  string
	OverdueInterval time.Duration
	ShutdownTimeout time.Duration
}

// Load reads the environment. Missing keys fall back to development defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:           os.Getenv("DB_DSN"),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 25),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:          getDuration("JWT_TTL", 24*time.Hour),
		Timezone:        getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		TaskGracePeriod: getDuration("TASK_GRACE_PERIOD", 30*time.Minute),
		WorkdayStart:    getEnv("WORKDAY_START", "09:30"),
		OfficeLat:       getFloat("OFFICE_LAT", 0),
		OfficeLng:       getFloat("OFFICE_LNG", 0),
		OfficeRadius:    getFloat("OFFICE_RADIUS_METERS", 200),
		MaxAttempts:     getInt("MAX_LOCATION_ATTEMPTS", 2),
		GeocoderURL:     os.Getenv("GEOCODER_URL"),
		GeocoderTimeout: getDuration("GEOCODER_TIMEOUT", 3*time.Second),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 40),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		CustomerPrefix:  strings.ToUpper(getEnv("DEFAULT_CUSTOMER_PREFIX", "CUS")),
		OverdueInterval: getDuration("LOAN_OVERDUE_INTERVAL", 5*time.Minute),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Location resolves the configured IANA zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasOffice reports whether office coordinates were configured.
func (c Config) HasOffice() bool {
	return c.OfficeLat != 0 || c.OfficeLng != 0
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// bare integers are seconds
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
