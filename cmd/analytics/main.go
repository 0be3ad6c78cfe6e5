package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/app"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/export"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/pipeline"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/storage"
	"github.com/andresuchdata/smart-inventory/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type serviceKey struct{}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.LogLevel)

	var db *postgres.DB

	cliApp := &cli.App{
		Name:  "analytics",
		Usage: "Run ABC analysis and demand forecasts against the inventory database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Database connection string",
				Value:   cfg.Database.URL(),
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.IntFlag{
				Name:  "horizon",
				Usage: "Forecast horizon in days",
				Value: cfg.Forecast.HorizonDays,
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Usage: "Random seed for reproducible forecasts, 0 for a fresh seed",
				Value: cfg.Forecast.Seed,
			},
		},
		Before: func(c *cli.Context) error {
			sqlDB, err := sql.Open("pgx", c.String("db-url"))
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if err := sqlDB.PingContext(c.Context); err != nil {
				sqlDB.Close()
				return fmt.Errorf("failed to ping database: %w", err)
			}
			db = postgres.Wrap(sqlx.NewDb(sqlDB, "pgx"))

			forecastCfg := cfg.Forecast
			forecastCfg.HorizonDays = c.Int("horizon")
			forecastCfg.Seed = c.Uint64("seed")
			var factory serviceFactory = func(store storage.ObjectStorage) *service.PredictionService {
				return newPredictionService(forecastCfg, db, store)
			}
			c.Context = context.WithValue(c.Context, serviceKey{}, factory)
			return nil
		},
		After: func(c *cli.Context) error {
			if db != nil {
				return db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "abc",
				Usage:  "Print the ABC portfolio summary as JSON",
				Action: runABC,
			},
			{
				Name:   "forecast",
				Usage:  "Generate and persist demand forecasts",
				Action: runForecast,
			},
			{
				Name:  "export",
				Usage: "Export upcoming forecasts as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file or directory",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:  "upload",
						Usage: "Also upload the export to object storage",
					},
				},
				Action: runExport,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("analytics failed")
	}
}

type serviceFactory func(store storage.ObjectStorage) *service.PredictionService

func newPredictionService(forecastCfg config.ForecastConfig, db *postgres.DB, store storage.ObjectStorage) *service.PredictionService {
	return service.NewPredictionService(service.PredictionDeps{
		Products:  postgres.NewProductRepository(db),
		Sales:     postgres.NewSalesRepository(db),
		Forecasts: postgres.NewForecastRepository(db),
		Runs:      pipeline.NewRepository(db.DB.DB),
		Batch:     app.Batch(forecastCfg),
		Analyzer:  app.Analyzer(forecastCfg),
		Exporter:  export.NewExporter(store),
	})
}

// predictions builds the service for c. store is only needed by export.
func predictions(c *cli.Context, store storage.ObjectStorage) *service.PredictionService {
	return c.Context.Value(serviceKey{}).(serviceFactory)(store)
}

func runABC(c *cli.Context) error {
	summary, err := predictions(c, nil).Analyze(c.Context)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func runForecast(c *cli.Context) error {
	forecasts, err := predictions(c, nil).Generate(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d predictions\n", len(forecasts))
	return nil
}

func runExport(c *cli.Context) error {
	var store storage.ObjectStorage
	if c.Bool("upload") {
		if store = app.ObjectStorage(c.Context, config.Load()); store == nil {
			return fmt.Errorf("no object storage available for upload")
		}
	}

	res, err := predictions(c, store).Export(c.Context)
	if err != nil {
		return err
	}

	out := c.String("out")
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, res.FileName)
	}
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("Wrote %s\n", out)
	if res.Key != "" {
		fmt.Printf("Uploaded as %s\n", res.Key)
	}
	return nil
}
