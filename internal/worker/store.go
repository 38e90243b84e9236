package worker

import (
	"context"
	"database/sql"
	"time"

	"github.com/fluffyriot/brandpulse/internal/database"
	"github.com/google/uuid"
)

// Store adapts the query layer to the orchestrator interfaces.
type Store struct {
	DB *database.Queries
}

func NewStore(db *database.Queries) *Store {
	return &Store{DB: db}
}

func (s *Store) SaveMetric(ctx context.Context, brandID uuid.UUID, platform string, sample MetricSample, at time.Time) error {
	_, err := s.DB.CreateMetric(ctx, database.CreateMetricParams{
		ID:         uuid.New(),
		BrandID:    brandID,
		Platform:   platform,
		Followers:  sql.NullInt64{Int64: sample.Followers, Valid: true},
		Following:  sql.NullInt32{Int32: sample.Following, Valid: true},
		Posts:      sql.NullInt32{Int32: sample.Posts, Valid: true},
		Likes:      sql.NullInt64{Int64: sample.Likes, Valid: sample.HasLikes},
		RecordedAt: at,
	})
	return err
}

func (s *Store) StartBatch(ctx context.Context, source string, at time.Time) (uuid.UUID, error) {
	l, err := s.DB.CreateSyncLog(ctx, database.CreateSyncLogParams{
		ID:        uuid.New(),
		Source:    source,
		Status:    "running",
		StartedAt: at,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return l.ID, nil
}

func (s *Store) FinishBatch(ctx context.Context, id uuid.UUID, status string, processed, inserted int, errMsg string, at time.Time) error {
	_, err := s.DB.UpdateSyncLog(ctx, database.UpdateSyncLogParams{
		ID:               id,
		Status:           status,
		RecordsProcessed: sql.NullInt32{Int32: int32(processed), Valid: true},
		RecordsInserted:  sql.NullInt32{Int32: int32(inserted), Valid: true},
		ErrorMessage:     sql.NullString{String: errMsg, Valid: errMsg != ""},
		CompletedAt:      sql.NullTime{Time: at, Valid: true},
	})
	return err
}

// ListBrandHandles loads every brand that could be synced, ordered by id.
func (s *Store) ListBrandHandles(ctx context.Context) ([]BrandHandle, error) {
	brands, err := s.DB.ListBrandsWithHandles(ctx)
	if err != nil {
		return nil, err
	}
	return toHandles(brands), nil
}

// ListBrandHandlesByIDs loads the selected brands, ordered by id.
func (s *Store) ListBrandHandlesByIDs(ctx context.Context, ids []uuid.UUID) ([]BrandHandle, error) {
	brands, err := s.DB.ListBrandsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toHandles(brands), nil
}

func toHandles(brands []database.Brand) []BrandHandle {
	handles := make([]BrandHandle, 0, len(brands))
	for _, b := range brands {
		handles = append(handles, BrandHandle{
			BrandID:           b.ID,
			Name:              b.Name,
			TikTokUsername:    b.TiktokHandle.String,
			InstagramUsername: b.InstagramHandle.String,
		})
	}
	return handles
}
