package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/pressly/goose/v3"

	_ "github.com/lib/pq"
)

// AppConfig carries every tunable the service reads from the environment.
type AppConfig struct {
	Port        string
	Environment string
	JWTSecret   string

	RapidAPIKey string

	TikTokHourlyLimit     int
	TikTokMonthlyLimit    int
	InstagramHourlyLimit  int
	InstagramMonthlyLimit int

	SyncDelay    time.Duration
	BackoffBase  time.Duration
	SyncInterval time.Duration
	HistorySize  int

	MonthlyBudget float64

	GoogleCredentialsPath string
	GoogleSheetsID        string
}

func Load() AppConfig {
	return AppConfig{
		Port:        envString("PORT", "8080"),
		Environment: envString("ENVIRONMENT", "development"),
		JWTSecret:   envString("JWT_SECRET", ""),

		RapidAPIKey: envString("RAPIDAPI_KEY", ""),

		TikTokHourlyLimit:     envInt("TIKTOK_HOURLY_LIMIT", 1000),
		TikTokMonthlyLimit:    envInt("TIKTOK_MONTHLY_LIMIT", 100),
		InstagramHourlyLimit:  envInt("INSTAGRAM_HOURLY_LIMIT", 1000),
		InstagramMonthlyLimit: envInt("INSTAGRAM_MONTHLY_LIMIT", 150),

		SyncDelay:    envDuration("SYNC_DELAY", 2*time.Second),
		BackoffBase:  envDuration("BACKOFF_BASE", time.Second),
		SyncInterval: envDuration("SYNC_INTERVAL", 24*time.Hour),
		HistorySize:  envInt("SYNC_HISTORY_SIZE", 200),

		MonthlyBudget: envFloat("MONTHLY_BUDGET_USD", 100),

		GoogleCredentialsPath: envString("GOOGLE_CREDENTIALS_PATH", ""),
		GoogleSheetsID:        envString("GOOGLE_SHEETS_ID", ""),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// LoadDatabase opens the Postgres connection and runs pending migrations.
// DATABASE_URL wins when set, otherwise the connection string is assembled
// from the POSTGRES_* variables.
func LoadDatabase() (*database.Queries, *sql.DB, error) {

	connectDbUrl := os.Getenv("DATABASE_URL")

	if connectDbUrl == "" {
		dbName := os.Getenv("POSTGRES_DB")
		dbUserName := os.Getenv("POSTGRES_USER")
		dbPassword := os.Getenv("POSTGRES_PASSWORD")
		dbHost := envString("POSTGRES_HOST", "db")

		if dbName == "" || dbUserName == "" || dbPassword == "" {
			return nil, nil, fmt.Errorf("Failed to load the environment configuration.")
		}

		connectDbUrl = fmt.Sprintf("postgres://%v:%v@%v:5432/%v?sslmode=disable", dbUserName, dbPassword, dbHost, dbName)
	}

	db, err := sql.Open("postgres", connectDbUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("Failed to connect to the DB. Error: %v", err)
	}

	migrationsDir := "./sql/schema"
	if err := goose.Up(db, migrationsDir); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	version, err := goose.EnsureDBVersion(db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get DB version: %v", err)
	}
	fmt.Printf("Migrations applied successfully. Current DB version: %d\n", version)

	dbQueries := database.New(db)

	return dbQueries, db, nil
}
