package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"FreightRecon/internal/appmanager"
	"FreightRecon/internal/config"
	"FreightRecon/internal/freight"
	"FreightRecon/internal/storage"
)

// initPool connects to the warehouse from env vars. DATABASE_URL wins;
// otherwise the connection string is composed from the DB_* parts.
func initPool(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf(
			"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"), os.Getenv("DB_NAME"),
		)
	}
	return pgxpool.New(ctx, connStr)
}

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	ctx := context.Background()

	pool, err := initPool(ctx)
	if err != nil {
		log.Fatal("failed to connect to warehouse:", err)
	}
	defer pool.Close()
	appmanager.SetPgxPool(pool)

	bucket, err := storage.NewBucketFromEnv(ctx)
	if err != nil {
		log.Fatal("failed to configure invoice bucket:", err)
	}

	runner := freight.NewRunner(pool, bucket,
		config.Env("FREIGHT_DATA_DIR", config.DefaultDataDir),
		config.Env("FREIGHT_EXPORT_DIR", config.DefaultExportDir),
		config.Env("FREIGHT_FIELDMAP_PATH", config.DefaultFieldMapPath),
	)
	runner.Workers = config.EnvInt("FREIGHT_WORKERS", 0)
	appmanager.SetRunner(runner)

	manager := appmanager.NewAppManager()

	servicesCfg, err := appmanager.LoadServiceSequence("../services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}
	manager.AutoRegisterServices(servicesCfg)

	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
}
