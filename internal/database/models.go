package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	ID              uuid.UUID
	Name            string
	Category        string
	HqCity          sql.NullString
	HqState         sql.NullString
	Country         sql.NullString
	Website         sql.NullString
	InstagramHandle sql.NullString
	TiktokHandle    sql.NullString
	Founders        sql.NullString
	FoundedYear     sql.NullInt32
	Revenue         sql.NullString
	Funding         sql.NullString
	ParentCompany   sql.NullString
	Notes           sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type SocialMetric struct {
	ID             uuid.UUID
	BrandID        uuid.UUID
	Platform       string
	Followers      sql.NullInt64
	Following      sql.NullInt32
	Posts          sql.NullInt32
	Likes          sql.NullInt64
	Comments       sql.NullInt64
	Shares         sql.NullInt64
	Views          sql.NullInt64
	EngagementRate sql.NullFloat64
	RecordedAt     time.Time
}

type SyncLog struct {
	ID               uuid.UUID
	Source           string
	Status           string
	RecordsProcessed sql.NullInt32
	RecordsInserted  sql.NullInt32
	RecordsUpdated   sql.NullInt32
	ErrorMessage     sql.NullString
	StartedAt        time.Time
	CompletedAt      sql.NullTime
}

type CreditUsage struct {
	ID            uuid.UUID
	OperationType string
	Description   sql.NullString
	CostUsd       float64
	MetadataJson  sql.NullString
	CreatedAt     time.Time
}

type PendingBrand struct {
	ID              uuid.UUID
	Name            string
	Website         sql.NullString
	InstagramHandle sql.NullString
	TiktokHandle    sql.NullString
	Category        sql.NullString
	Location        sql.NullString
	ConfidenceScore sql.NullFloat64
	DiscoveredAt    time.Time
	Status          string
	Source          sql.NullString
	MetadataJson    sql.NullString
}

type UpdateLog struct {
	ID           uuid.UUID
	BrandID      uuid.UUID
	BrandName    string
	FieldChanged string
	OldValue     sql.NullString
	NewValue     sql.NullString
	UpdateType   sql.NullString
	UpdatedAt    time.Time
}
