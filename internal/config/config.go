package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	ErrMissingUser = errors.New("LOBBY_USER is required")
	ErrInvalid     = errors.New("invalid configuration")
)

const (
	DefaultServerURL = "ws://localhost:8080/ws"
	DefaultTick      = 16 * time.Millisecond
	DefaultAddr      = ":8080"
	DefaultEnvFile   = ".env"
)

type Log struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

type Client struct {
	ServerURL string
	User      string
	Tick      time.Duration
	Log       Log
}

type Authority struct {
	Addr        string
	DatabaseURL string // empty disables the audit store
	Log         Log
}

// LoadClient reads the client settings. envFiles default to .env; missing files are skipped.
func LoadClient(envFiles ...string) (Client, error) {
	if err := loadEnv(envFiles); err != nil {
		return Client{}, err
	}

	cfg := Client{
		ServerURL: getenv("LOBBY_SERVER_URL", DefaultServerURL),
		User:      strings.TrimSpace(os.Getenv("LOBBY_USER")),
		Log:       loadLog(),
	}

	var errs error
	if cfg.User == "" {
		errs = multierr.Append(errs, ErrMissingUser)
	}
	if u, err := url.Parse(cfg.ServerURL); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: LOBBY_SERVER_URL: %v", ErrInvalid, err))
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		errs = multierr.Append(errs, fmt.Errorf("%w: LOBBY_SERVER_URL scheme must be ws or wss, got %q", ErrInvalid, u.Scheme))
	}

	cfg.Tick = DefaultTick
	if raw := os.Getenv("LOBBY_TICK"); raw != "" {
		d, err := time.ParseDuration(raw)
		switch {
		case err != nil:
			errs = multierr.Append(errs, fmt.Errorf("%w: LOBBY_TICK: %v", ErrInvalid, err))
		case d <= 0:
			errs = multierr.Append(errs, fmt.Errorf("%w: LOBBY_TICK must be positive", ErrInvalid))
		default:
			cfg.Tick = d
		}
	}
	errs = multierr.Append(errs, cfg.Log.validate())

	if errs != nil {
		return Client{}, errs
	}
	return cfg, nil
}

// LoadAuthority reads the authority server settings.
func LoadAuthority(envFiles ...string) (Authority, error) {
	if err := loadEnv(envFiles); err != nil {
		return Authority{}, err
	}

	cfg := Authority{
		Addr:        getenv("AUTHORITY_ADDR", DefaultAddr),
		DatabaseURL: strings.TrimSpace(os.Getenv("AUTHORITY_DATABASE_URL")),
		Log:         loadLog(),
	}

	var errs error
	if cfg.DatabaseURL != "" {
		if _, err := pgx.ParseConfig(cfg.DatabaseURL); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: AUTHORITY_DATABASE_URL: %v", ErrInvalid, err))
		}
	}
	errs = multierr.Append(errs, cfg.Log.validate())

	if errs != nil {
		return Authority{}, errs
	}
	return cfg, nil
}

// NewLogger builds a production JSON logger, or a development console logger for Format "console".
func NewLogger(l Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %v", ErrInvalid, err)
	}

	zc := zap.NewProductionConfig()
	if l.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func (l Log) validate() error {
	var errs error
	if _, err := zapcore.ParseLevel(l.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: LOBBY_LOG_LEVEL: %v", ErrInvalid, err))
	}
	if l.Format != "json" && l.Format != "console" {
		errs = multierr.Append(errs, fmt.Errorf("%w: LOBBY_LOG_FORMAT must be json or console, got %q", ErrInvalid, l.Format))
	}
	return errs
}

func loadLog() Log {
	return Log{
		Level:  strings.ToLower(getenv("LOBBY_LOG_LEVEL", "info")),
		Format: strings.ToLower(getenv("LOBBY_LOG_FORMAT", "json")),
	}
}

// loadEnv never overrides variables that are already set.
func loadEnv(files []string) error {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
