package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is constructed once at startup and passed into constructors; job logic
// never reads the environment directly.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Trigger authorization: shared secret compared by plain equality.
	CronSecret string

	// Record store (remote tabular data service)
	StoreBaseURL     string
	StoreAPIKey      string
	StoreTimeout     time.Duration
	FollowCollection string
	UserCollection   string
	MovieCollection  string

	// Mail provider
	MailBaseURL string
	MailAPIKey  string
	MailFrom    string
	MailTimeout time.Duration

	// Poster images: base URL the poster path is appended to.
	ImageBaseURL string

	// Which calendar day counts as "today". IANA zone name; default UTC.
	// Changing this changes which movies are considered due.
	ReleaseTimezone string

	// Outbound email sends per second.
	SendRateLimit int

	// Database (dispatch log)
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// DedupeSends suppresses re-sending a notification already logged as
	// sent for the same (movie, recipient, day). Off by default: the
	// reference behavior is at-least-once across repeated triggers.
	DedupeSends bool

	// Optional in-process scheduler for deployments without external cron.
	SchedulerEnabled  bool
	SchedulerInterval time.Duration
}

func Load() (*Config, error) {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	storeURL := os.Getenv("STORE_BASE_URL")
	if storeURL == "" {
		return nil, fmt.Errorf("STORE_BASE_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		CronSecret: secret,

		StoreBaseURL:     storeURL,
		StoreAPIKey:      os.Getenv("STORE_API_KEY"),
		StoreTimeout:     getDuration("STORE_TIMEOUT", 10*time.Second),
		FollowCollection: getEnv("FOLLOW_COLLECTION", "Movies"),
		UserCollection:   getEnv("USER_COLLECTION", "Users"),
		MovieCollection:  getEnv("MOVIE_COLLECTION", "Catalog"),

		MailBaseURL: getEnv("MAIL_BASE_URL", "https://api.mailprovider.example/v3/send"),
		MailAPIKey:  os.Getenv("MAIL_API_KEY"),
		MailFrom:    getEnv("MAIL_FROM", "notifications@reelwatch.app"),
		MailTimeout: getDuration("MAIL_TIMEOUT", 10*time.Second),

		ImageBaseURL: getEnv("IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),

		ReleaseTimezone: getEnv("RELEASE_TIMEZONE", "UTC"),

		SendRateLimit: getInt("SEND_RATE_LIMIT", 10),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		DedupeSends: getBool("DEDUPE_SENDS", false),

		SchedulerEnabled:  getBool("SCHEDULER_ENABLED", false),
		SchedulerInterval: getDuration("SCHEDULER_INTERVAL", 24*time.Hour),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
