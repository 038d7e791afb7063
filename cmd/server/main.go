package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/vncsmyrnk/meettogether/internal/adapters/handler/http"
	"github.com/vncsmyrnk/meettogether/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/meettogether/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/meettogether/internal/adapters/session"
	"github.com/vncsmyrnk/meettogether/internal/config"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
	"github.com/vncsmyrnk/meettogether/internal/core/services"
)

type repositories struct {
	plans      ports.PlanRepository
	users      ports.UserRepository
	guests     ports.GuestRepository
	timeblocks ports.TimeblockRepository
	polls      ports.PollRepository
	votes      ports.VoteRepository
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "meettogether",
		Usage:  "Group availability and decision polls API.",
		Flags:  config.ServerFlags(),
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg := config.FromContext(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	slog.SetDefault(cfg.Logger(os.Stderr))

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepos()

	sessions := session.Chain{session.NewJWTVerifier(repos.users, cfg.JWTSecret)}
	if cfg.GoogleClientID != "" {
		sessions = append(sessions, session.NewGoogleVerifier(repos.users, cfg.GoogleClientID))
	}

	identities := services.NewIdentityService(repos.plans, repos.guests)
	handler := http.NewHandler(http.Handlers{
		Plan:         http.NewPlanHandler(services.NewPlanService(repos.plans)),
		Availability: http.NewAvailabilityHandler(services.NewAvailabilityService(repos.plans, repos.timeblocks, identities)),
		Guest:        http.NewGuestHandler(identities),
		Poll:         http.NewPollHandler(services.NewPollService(repos.plans, repos.polls, identities)),
		Vote:         http.NewVoteHandler(services.NewVoteService(repos.plans, repos.polls, repos.guests, repos.votes, identities)),
		User:         http.NewUserHandler(),
	}, sessions, cfg.CORSOrigins)

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		return repositories{
			plans:      memory.NewPlanRepository(store),
			users:      memory.NewUserRepository(store),
			guests:     memory.NewGuestRepository(store),
			timeblocks: memory.NewTimeblockRepository(store),
			polls:      memory.NewPollRepository(store),
			votes:      memory.NewVoteRepository(store),
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return repositories{}, nil, err
	}
	closeDB := func() { closeQuietly(db) }

	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(ctx, db); err != nil {
			closeDB()
			return repositories{}, nil, err
		}
		slog.Info("migrations applied")
	}

	return repositories{
		plans:      postgres.NewPlanRepository(db),
		users:      postgres.NewUserRepository(db),
		guests:     postgres.NewGuestRepository(db),
		timeblocks: postgres.NewTimeblockRepository(db),
		polls:      postgres.NewPollRepository(db),
		votes:      postgres.NewVoteRepository(db),
	}, closeDB, nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}
