// backend-go/cmd/forecast/main.go
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/andresuchdata/medforecast/backend-go/internal/alert"
	"github.com/andresuchdata/medforecast/backend-go/internal/cache"
	"github.com/andresuchdata/medforecast/backend-go/internal/config"
	"github.com/andresuchdata/medforecast/backend-go/internal/forecast"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
	"github.com/andresuchdata/medforecast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/medforecast/backend-go/internal/service"
	"github.com/andresuchdata/medforecast/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*postgres.DB, error) {
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return postgres.FromSqlx(db), nil
}

func buildForecastService(db *postgres.DB, cfg *config.Config, workers int) *service.ForecastService {
	var store model.ArtifactStore
	if cfg.Models.Source == "s3" {
		s3Store, err := model.NewObjectStore(model.ObjectStoreConfig{
			Endpoint:  cfg.Models.Endpoint,
			AccessKey: cfg.Models.AccessKey,
			SecretKey: cfg.Models.SecretKey,
			Bucket:    cfg.Models.Bucket,
			UseSSL:    cfg.Models.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize model store")
		}
		store = s3Store
	} else {
		store = model.NewLocalStore(cfg.Models.ModelDir)
	}

	dispatcher := forecast.NewDispatcher(forecast.Routing{
		Tabular:    cfg.Forecast.TabularMedicines,
		Sequential: cfg.Forecast.SequentialMedicines,
	}, model.NewStoreRegistry(store))

	manager := alert.NewManager(postgres.NewAlertStore(db), cfg.Alerts.ExpiryAlertDays)

	return service.NewForecastService(
		postgres.NewMedicineRepository(db),
		postgres.NewSalesRepository(db),
		postgres.NewPredictionRepository(db),
		dispatcher, manager,
		cache.NewNoopPredictionCache(),
		workers,
	)
}

func runForecast(c *cli.Context) error {
	cfg := config.Load()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	workers := c.Int("workers")
	if workers < 1 {
		workers = cfg.Forecast.WorkerCount
	}
	horizon := c.Int("weeks")
	if horizon < 1 {
		horizon = cfg.Forecast.HorizonWeeks
	}

	svc := buildForecastService(db, cfg, workers)
	report, err := svc.RunBatch(c.Context, horizon)
	if err != nil {
		return err
	}

	fmt.Printf("forecast run: %d predicted, %d skipped, %d failed\n",
		report.Forecasts.Predicted, report.Forecasts.Skipped, report.Forecasts.Failed)
	fmt.Printf("alerts: %d low stock, %d expiry, %d duplicates removed, %d resolved\n",
		report.Alerts.LowStockAlerts, report.Alerts.ExpiryAlerts,
		report.Alerts.DuplicatesRemoved, report.Alerts.ResolvedRemoved)
	return nil
}

func runAlerts(c *cli.Context) error {
	cfg := config.Load()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	manager := alert.NewManager(postgres.NewAlertStore(db), cfg.Alerts.ExpiryAlertDays)
	report, err := manager.Run(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("alerts: %d low stock, %d expiry, %d duplicates removed, %d resolved\n",
		report.LowStockAlerts, report.ExpiryAlerts, report.DuplicatesRemoved, report.ResolvedRemoved)
	return nil
}

// runIngest loads a weekly sales CSV with columns
// medicine_name,year,week_number,quantity (header required).
func runIngest(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	file, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open sales file: %w", err)
	}
	defer file.Close()

	records, err := parseSalesCSV(file)
	if err != nil {
		return err
	}

	svc := service.NewSalesService(
		postgres.NewMedicineRepository(db),
		postgres.NewSalesRepository(db),
	)
	summary, err := svc.Ingest(c.Context, records)
	if err != nil {
		return err
	}

	fmt.Printf("sales ingest: %d inserted, %d updated, %d stock updates, %d unknown medicines\n",
		summary.SalesInserted, summary.SalesUpdated, summary.StockUpdated, len(summary.SkippedProducts))
	for _, name := range summary.SkippedProducts {
		fmt.Printf("  skipped: %s\n", name)
	}
	return nil
}

func parseSalesCSV(r io.Reader) ([]service.SalesUpload, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"medicine_name", "year", "week_number", "quantity"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", required)
		}
	}

	var uploads []service.SalesUpload
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		year, err := strconv.Atoi(row[col["year"]])
		if err != nil {
			return nil, fmt.Errorf("invalid year on line %d: %w", line, err)
		}
		week, err := strconv.Atoi(row[col["week_number"]])
		if err != nil {
			return nil, fmt.Errorf("invalid week_number on line %d: %w", line, err)
		}
		quantity, err := strconv.Atoi(row[col["quantity"]])
		if err != nil {
			return nil, fmt.Errorf("invalid quantity on line %d: %w", line, err)
		}

		uploads = append(uploads, service.SalesUpload{
			MedicineName: row[col["medicine_name"]],
			Year:         year,
			WeekNumber:   week,
			Quantity:     quantity,
		})
	}
	return uploads, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	app := &cli.App{
		Name:  "forecast",
		Usage: "Run demand forecasting and reorder alerting from the command line",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Forecast all medicines, store predictions and reconcile alerts",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "weeks",
						Usage: "Forecast horizon in weeks",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent forecast workers",
						Value: 0,
					},
				},
				Action: runForecast,
			},
			{
				Name:   "alerts",
				Usage:  "Reconcile low-stock and expiry alerts without forecasting",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: runAlerts,
			},
			{
				Name:  "ingest",
				Usage: "Ingest a weekly sales CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the sales CSV file",
						Required: true,
					},
				},
				Action: runIngest,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
