package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/urfave/cli/v2"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPAddr       string
	Storage        string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	GoogleClientID string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
	AutoMigrate    bool
}

// DatabaseFlags are shared by every command that talks to Postgres.
func DatabaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db-driver", Value: "postgres", Usage: "database/sql driver: postgres (lib/pq) or pgx", EnvVars: []string{"DB_DRIVER"}},
		&cli.StringFlag{Name: "db-host", Value: "localhost", EnvVars: []string{"POSTGRES_HOST"}},
		&cli.StringFlag{Name: "db-port", Value: "5432", EnvVars: []string{"POSTGRES_PORT"}},
		&cli.StringFlag{Name: "db-user", Value: "postgres", EnvVars: []string{"POSTGRES_USER"}},
		&cli.StringFlag{Name: "db-password", EnvVars: []string{"POSTGRES_PASSWORD"}},
		&cli.StringFlag{Name: "db-name", Value: "meettogether", EnvVars: []string{"POSTGRES_DB"}},
		&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		&cli.StringFlag{Name: "log-format", Value: "text", Usage: "text or json", EnvVars: []string{"LOG_FORMAT"}},
	}
}

// ServerFlags are the flags of the HTTP API process.
func ServerFlags() []cli.Flag {
	return append(DatabaseFlags(),
		&cli.StringFlag{Name: "addr", Value: "0.0.0.0:8080", EnvVars: []string{"HTTP_ADDR"}},
		&cli.StringFlag{Name: "storage", Value: StoragePostgres, Usage: "postgres or memory", EnvVars: []string{"STORAGE"}},
		&cli.StringFlag{Name: "jwt-secret", Usage: "HMAC secret of session tokens", EnvVars: []string{"JWT_SECRET"}},
		&cli.StringFlag{Name: "google-client-id", Usage: "accept Google ID tokens issued for this client", EnvVars: []string{"GOOGLE_CLIENT_ID"}},
		&cli.StringSliceFlag{Name: "cors-origins", Usage: "allowed CORS origins", EnvVars: []string{"CORS_ORIGINS"}},
		&cli.BoolFlag{Name: "auto-migrate", Usage: "apply migrations on start", EnvVars: []string{"AUTO_MIGRATE"}},
	)
}

// FromContext reads every known flag; flags a command does not define are
// left at their zero value.
func FromContext(c *cli.Context) Config {
	cfg := Config{
		HTTPAddr:       c.String("addr"),
		Storage:        c.String("storage"),
		DBDriver:       c.String("db-driver"),
		DBHost:         c.String("db-host"),
		DBPort:         c.String("db-port"),
		DBUser:         c.String("db-user"),
		DBPassword:     c.String("db-password"),
		DBName:         c.String("db-name"),
		JWTSecret:      c.String("jwt-secret"),
		GoogleClientID: c.String("google-client-id"),
		LogLevel:       c.String("log-level"),
		LogFormat:      c.String("log-format"),
		AutoMigrate:    c.Bool("auto-migrate"),
	}
	for _, origin := range c.StringSlice("cors-origins") {
		if o := strings.TrimRight(strings.TrimSpace(origin), "/"); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}

// Validate checks the server configuration.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case StoragePostgres:
		if c.DBDriver != "postgres" && c.DBDriver != "pgx" {
			errs = append(errs, fmt.Errorf("unsupported db driver %q", c.DBDriver))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported storage %q", c.Storage))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR is required"))
	}
	return errors.Join(errs...)
}

func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
