package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"expertise-marketplace/internal/app"
	"expertise-marketplace/internal/config"
	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/infrastructure/cache"
	"expertise-marketplace/internal/seed"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "seeder",
		Usage: "Upsert seed experts into the configured record store and retire cached listings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "YAML file of experts (defaults to the built-in demo set)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent upserts",
				Value: 4,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall deadline for the run",
				Value: 2 * time.Minute,
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate the seed records without writing them",
			},
		},
		Action: seedCommand,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedCommand(c *cli.Context) error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	experts, err := loadExperts(c.String("file"))
	if err != nil {
		return err
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)
	logger.Printf("[Seed] loaded %d expert(s)", len(experts))
	if c.Bool("dry-run") {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Driver == config.DriverBadger && cfg.Store.Path == "" {
		return fmt.Errorf("refusing to seed an in-memory badger store, set STORE_PATH")
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	store, err := app.OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Printf("[Seed] close store: %v", err)
		}
	}()

	listings := cache.NewRedis(cfg.Redis, logger)
	defer func() {
		if err := listings.Close(); err != nil {
			logger.Printf("[Seed] close cache: %v", err)
		}
	}()

	runner := seed.Runner{Workers: c.Int("workers"), Logger: logger, Cache: listings}
	report, err := runner.Run(ctx, store.Experts, experts)
	logger.Printf("[Seed] complete | upserted=%d failed=%d", report.Upserted, report.Failed)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d record(s) failed", report.Failed), 1)
	}
	return nil
}

func loadExperts(path string) ([]expert.Expert, error) {
	if path == "" {
		return seed.Defaults()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return seed.Load(f)
}
