package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/fluffyriot/brandpulse/internal/api/handlers"
	"github.com/fluffyriot/brandpulse/internal/authhelp"
	"github.com/fluffyriot/brandpulse/internal/cli"
	"github.com/fluffyriot/brandpulse/internal/config"
	"github.com/fluffyriot/brandpulse/internal/credits"
	"github.com/fluffyriot/brandpulse/internal/fetcher"
	"github.com/fluffyriot/brandpulse/internal/quota"
	"github.com/fluffyriot/brandpulse/internal/research"
	"github.com/fluffyriot/brandpulse/internal/sheets"
	"github.com/fluffyriot/brandpulse/internal/worker"
	"github.com/gin-gonic/gin"
)

func main() {

	hashPassword := flag.Bool("hash-password", false, "Hash a password for a USER_ env entry and exit")
	flag.Parse()

	if *hashPassword {
		cli.HandleHashPassword()
		return
	}

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			log.Fatalln("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret-do-not-use-in-production"
		log.Println("JWT_SECRET not set, using development secret")
	}

	dbQueries, _, err := config.LoadDatabase()
	if err != nil {
		log.Fatalln(err)
	}

	users := authhelp.LoadUsersFromEnv(cfg.Environment)
	if len(users) == 0 {
		log.Fatalln("No users configured, set USER_<NAME>=password:role:name")
	}

	quotas := quota.NewTracker(map[string]quota.Limits{
		quota.PlatformTikTok:    {Hourly: cfg.TikTokHourlyLimit, Monthly: cfg.TikTokMonthlyLimit},
		quota.PlatformInstagram: {Hourly: cfg.InstagramHourlyLimit, Monthly: cfg.InstagramMonthlyLimit},
	})

	apiClient := fetcher.NewClient(cfg.RapidAPIKey, 30*time.Second)
	fetchers := []fetcher.ProfileFetcher{
		fetcher.NewTikTokClient(apiClient),
		fetcher.NewInstagramClient(apiClient),
	}

	creditTracker := credits.NewTracker(dbQueries, cfg.MonthlyBudget)
	store := worker.NewStore(dbQueries)

	orchestrator := worker.NewOrchestrator(
		fetchers, quotas, store, store, creditTracker,
		cfg.SyncDelay, cfg.BackoffBase, cfg.HistorySize,
	)

	w := worker.NewWorker(orchestrator, store)
	w.Start(cfg.SyncInterval)

	researcher := research.NewResearcher(dbQueries, creditTracker, 30*time.Second)

	var sheetsService *sheets.Service
	if cfg.GoogleCredentialsPath != "" && cfg.GoogleSheetsID != "" {
		sheetsService, err = sheets.NewService(context.Background(), dbQueries, cfg.GoogleCredentialsPath, cfg.GoogleSheetsID)
		if err != nil {
			log.Printf("Sheets sync disabled: %v", err)
		}
	}

	h := handlers.NewHandler(dbQueries, &cfg, w, creditTracker, researcher, sheetsService, users)

	r := gin.Default()
	h.RegisterRoutes(r)

	log.Printf("Listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalln(err)
	}
}
