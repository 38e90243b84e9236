package handlers

import (
	"github.com/fluffyriot/brandpulse/internal/authhelp"
	"github.com/fluffyriot/brandpulse/internal/config"
	"github.com/fluffyriot/brandpulse/internal/credits"
	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/fluffyriot/brandpulse/internal/research"
	"github.com/fluffyriot/brandpulse/internal/sheets"
	"github.com/fluffyriot/brandpulse/internal/worker"
)

type Handler struct {
	DB         *database.Queries
	Config     *config.AppConfig
	Worker     *worker.Worker
	Credits    *credits.Tracker
	Researcher *research.Researcher
	Sheets     *sheets.Service
	Users      map[string]authhelp.User
}

func NewHandler(
	db *database.Queries,
	cfg *config.AppConfig,
	w *worker.Worker,
	creditTracker *credits.Tracker,
	researcher *research.Researcher,
	sheetsService *sheets.Service,
	users map[string]authhelp.User,
) *Handler {
	return &Handler{
		DB:         db,
		Config:     cfg,
		Worker:     w,
		Credits:    creditTracker,
		Researcher: researcher,
		Sheets:     sheetsService,
		Users:      users,
	}
}
