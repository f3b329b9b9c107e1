package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/comitanigiacomo/trackloom/internal/adapters/repository"
	"github.com/comitanigiacomo/trackloom/internal/config"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

var CLI struct {
	config.Config `embed:""`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API and the reminder worker." default:"withargs"`
	Migrate MigrateCmd `cmd:"" help:"Apply the database migrations and exit."`
}

type ServeCmd struct {
	Memory bool `help:"Keep everything in process memory instead of Postgres and Redis."`
}

func (cmd *ServeCmd) Run(cfg *config.Config) error {
	return serve(cfg, cmd.Memory)
}

type MigrateCmd struct{}

func (cmd *MigrateCmd) Run(cfg *config.Config) error {
	ctx := context.Background()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := repository.Migrate(ctx, db)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "files", applied)
	return nil
}

func main() {
	config.LoadDotEnv()

	ctx := kong.Parse(&CLI,
		kong.Name("trackloom"),
		kong.Description("Habit tracking API"),
		kong.UsageOnError(),
	)

	cfg := &CLI.Config
	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(cfg); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}
