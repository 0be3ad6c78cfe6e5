package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/drive"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/fixtures"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/ingest"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/smart-inventory/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag(cfg *config.Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		Value:   cfg.Database.URL(),
		EnvVars: []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, postgres.Wrap(sqlx.NewDb(db, "pgx")))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	return c.Context.Value(dbKey{}).(*postgres.DB)
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.LogLevel)

	app := &cli.App{
		Name:   "seed",
		Usage:  "Prepare the smart inventory database",
		Flags:  []cli.Flag{newDBURLFlag(cfg)},
		Before: initDB,
		After:  closeDB,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply pending schema migrations",
				Action: runMigrate,
			},
			{
				Name:  "fixtures",
				Usage: "Seed the demo catalogue and two years of sales history",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed for the generated data",
						Value: fixtures.DefaultSeed,
					},
				},
				Action: runFixtures,
			},
			{
				Name:  "sales",
				Usage: "Import a CSV or XLSX sales file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the sales file",
						Required: true,
					},
				},
				Action: runSalesImport,
			},
			{
				Name:  "drive",
				Usage: "Download sales files from Google Drive and import them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Service account credentials JSON file",
						Value:   cfg.Drive.CredentialsFile,
						EnvVars: []string{"DRIVE_CREDENTIALS_FILE"},
					},
					&cli.StringFlag{
						Name:    "folder",
						Usage:   "Drive folder path, e.g. reports/sales",
						Value:   cfg.Drive.FolderPath,
						EnvVars: []string{"DRIVE_FOLDER_PATH"},
					},
					&cli.StringFlag{
						Name:    "download-dir",
						Usage:   "Local directory for downloaded files",
						Value:   cfg.Drive.DownloadDir,
						EnvVars: []string{"DRIVE_DOWNLOAD_DIR"},
					},
				},
				Action: runDriveSync,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func runMigrate(c *cli.Context) error {
	applied, err := dbFrom(c).Migrate(c.Context)
	if err != nil {
		return err
	}
	logger.Log.Info().Strs("versions", applied).Msg("migrations applied")
	return nil
}

func runFixtures(c *cli.Context) error {
	db := dbFrom(c)
	res, err := fixtures.Seed(c.Context,
		postgres.NewProductRepository(db),
		postgres.NewSalesRepository(db),
		c.Uint64("seed"),
		time.Now(),
	)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Println("Products already exist, nothing to seed")
		return nil
	}
	fmt.Printf("Seeded %d products and %d sales records\n", res.Products, res.Sales)
	return nil
}

func newImporter(db *postgres.DB) *ingest.Importer {
	return ingest.NewImporter(postgres.NewProductRepository(db), postgres.NewSalesRepository(db))
}

func runSalesImport(c *cli.Context) error {
	stats, err := newImporter(dbFrom(c)).ImportFile(c.Context, c.String("file"))
	if err != nil {
		return err
	}
	printStats(c.String("file"), stats)
	return nil
}

func runDriveSync(c *cli.Context) error {
	credsPath := c.String("credentials")
	if credsPath == "" {
		return fmt.Errorf("drive credentials file is required")
	}
	if c.String("folder") == "" {
		return fmt.Errorf("drive folder path is required")
	}
	creds, err := os.ReadFile(credsPath)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	svc, err := drive.NewService(c.Context, creds)
	if err != nil {
		return err
	}
	results, err := drive.NewSyncer(svc, newImporter(dbFrom(c))).Sync(c.Context, c.String("folder"), c.String("download-dir"))
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%s: %v\n", r.Name, r.Err)
			continue
		}
		printStats(r.Name, r.Stats)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(results))
	}
	return nil
}

func printStats(name string, stats *ingest.Stats) {
	fmt.Printf("%s: %d rows, %d imported, %d skipped\n", name, stats.Rows, stats.Imported, stats.Skipped)
	for _, e := range stats.Errors {
		fmt.Printf("  %v\n", e)
	}
}
