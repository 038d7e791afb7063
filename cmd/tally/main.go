package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/vncsmyrnk/meettogether/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/meettogether/internal/config"
	"github.com/vncsmyrnk/meettogether/internal/core/ports"
	"github.com/vncsmyrnk/meettogether/internal/core/services"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "tally",
		Usage: "Print poll tallies and the availability grid of a plan as JSON.",
		Flags: append(config.DatabaseFlags(),
			&cli.StringFlag{Name: "plan", Usage: "plan id; prints every poll of the plan"},
			&cli.StringFlag{Name: "poll", Usage: "poll id; prints a single poll"},
			&cli.BoolFlag{Name: "grid", Usage: "also print the plan's availability grid"},
			&cli.DurationFlag{Name: "timeout", Value: 5 * time.Minute},
		),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("tally failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.FromContext(c)
	slog.SetDefault(cfg.Logger(os.Stderr))

	planFlag, pollFlag := c.String("plan"), c.String("poll")
	if (planFlag == "") == (pollFlag == "") {
		return fmt.Errorf("exactly one of --plan or --poll is required")
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	planRepo := postgres.NewPlanRepository(db)
	identities := services.NewIdentityService(planRepo, postgres.NewGuestRepository(db))
	polls := services.NewPollService(planRepo, postgres.NewPollRepository(db), identities)
	availability := services.NewAvailabilityService(planRepo, postgres.NewTimeblockRepository(db), identities)

	if pollFlag != "" {
		pollID, err := uuid.Parse(pollFlag)
		if err != nil {
			return fmt.Errorf("invalid poll id: %w", err)
		}
		tally, err := polls.Tally(ctx, pollID)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, tally)
	}

	planID, err := uuid.Parse(planFlag)
	if err != nil {
		return fmt.Errorf("invalid plan id: %w", err)
	}
	return printPlan(ctx, c.App.Writer, planID, polls, availability, c.Bool("grid"))
}

func printPlan(ctx context.Context, w io.Writer, planID uuid.UUID, polls ports.PollService, availability ports.AvailabilityService, withGrid bool) error {
	tallies, err := polls.ListByPlan(ctx, planID)
	if err != nil {
		return err
	}
	slog.Info("tallied polls", "plan_id", planID, "polls", len(tallies))

	out := map[string]any{"plan_id": planID, "polls": tallies}
	if withGrid {
		grid, err := availability.Grid(ctx, planID)
		if err != nil {
			return err
		}
		out["grid"] = grid
	}
	return printJSON(w, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
