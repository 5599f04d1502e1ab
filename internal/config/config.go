package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every environment-driven setting of the service.
// Values are read once at start-up; see FromEnv for the variable names.
type Config struct {
	Env      string
	HTTPAddr string
	NodeID   string

	DBURL    string
	RedisURL string

	RemoteIDSecret string
	JWTSecret      string

	JoinNotificationThreshold int
	DisplayNameParticipants   int
	ParticipantPageSize       int

	RequestTimeout    time.Duration
	DirectoryCacheTTL time.Duration

	AsynqConcurrency int
	AsynqQueues      string
	RealtimeChannel  string
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Env:                       "development",
		HTTPAddr:                  ":8080",
		JoinNotificationThreshold: 2,
		DisplayNameParticipants:   3,
		ParticipantPageSize:       10,
		RequestTimeout:            3 * time.Second,
		DirectoryCacheTTL:         5 * time.Minute,
		AsynqConcurrency:          10,
		AsynqQueues:               "default=1,chat=1",
		RealtimeChannel:           "chat-events",
	}
}

// FromEnv reads the configuration from the process environment.
// Malformed numeric or duration values keep their default.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.Env = stringEnv("APP_ENV", cfg.Env)
	cfg.HTTPAddr = stringEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.NodeID = stringEnv("NODE_ID", cfg.NodeID)
	cfg.DBURL = stringEnv("DB_URL", "")
	cfg.RedisURL = stringEnv("REDIS_URL", "")
	cfg.RemoteIDSecret = stringEnv("REMOTE_ID_SECRET", "")
	cfg.JWTSecret = stringEnv("JWT_SECRET", "")

	cfg.JoinNotificationThreshold = intEnv("JOIN_NOTIFICATION_THRESHOLD", cfg.JoinNotificationThreshold, 0)
	cfg.DisplayNameParticipants = intEnv("DISPLAY_NAME_PARTICIPANTS", cfg.DisplayNameParticipants, 1)
	cfg.ParticipantPageSize = intEnv("PARTICIPANT_PAGE_SIZE", cfg.ParticipantPageSize, 1)
	cfg.AsynqConcurrency = intEnv("ASYNQ_CONCURRENCY", cfg.AsynqConcurrency, 1)

	cfg.RequestTimeout = durationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.DirectoryCacheTTL = durationEnv("DIRECTORY_CACHE_TTL", cfg.DirectoryCacheTTL)

	cfg.AsynqQueues = stringEnv("ASYNQ_QUEUES", cfg.AsynqQueues)
	cfg.RealtimeChannel = stringEnv("REALTIME_CHANNEL", cfg.RealtimeChannel)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DBURL == "" {
		errs = append(errs, errors.New("config: DB_URL environment variable is not set"))
	}
	if c.RemoteIDSecret == "" {
		errs = append(errs, errors.New("config: REMOTE_ID_SECRET environment variable is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("config: JWT_SECRET environment variable is not set"))
	}
	return errors.Join(errs...)
}

// IsProduction tells whether production logging and gin release mode apply.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def, min int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < min {
		return def
	}
	return i
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
