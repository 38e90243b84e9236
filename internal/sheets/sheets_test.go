package sheets

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetricRow(t *testing.T) {
	row := []interface{}{
		"Acme", "tiktok", "12000", "300", "42", "90000", "150", "20", "500000", "3.5", "2026-08-01",
	}

	name, params := parseMetricRow(row)

	assert.Equal(t, "Acme", name)
	assert.Equal(t, "tiktok", params.Platform)
	require.True(t, params.Followers.Valid)
	assert.Equal(t, int64(12000), params.Followers.Int64)
	require.True(t, params.Following.Valid)
	assert.Equal(t, int32(300), params.Following.Int32)
	require.True(t, params.EngagementRate.Valid)
	assert.Equal(t, 3.5, params.EngagementRate.Float64)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), params.RecordedAt)
}

func TestParseMetricRowDefaults(t *testing.T) {
	before := time.Now()
	name, params := parseMetricRow([]interface{}{"Acme"})

	assert.Equal(t, "Acme", name)
	assert.Equal(t, "instagram", params.Platform, "platform defaults to instagram")
	assert.False(t, params.Followers.Valid, "blank cells stay NULL")
	assert.False(t, params.EngagementRate.Valid)
	assert.False(t, params.RecordedAt.Before(before), "missing date defaults to now")
}

func TestParseMetricRowBadValuesStayNull(t *testing.T) {
	name, params := parseMetricRow([]interface{}{
		"Acme", "tiktok", "a lot", "", "", "", "", "", "", "n/a", "not-a-date",
	})

	assert.Equal(t, "Acme", name)
	assert.False(t, params.Followers.Valid)
	assert.False(t, params.EngagementRate.Valid)
}

func TestParseMetricRowEmptyName(t *testing.T) {
	name, _ := parseMetricRow([]interface{}{"", "tiktok", "5"})
	assert.Empty(t, name)
}

func TestMetricCellRendering(t *testing.T) {
	assert.Equal(t, "12000", numCell64(sql.NullInt64{Int64: 12000, Valid: true}))
	assert.Equal(t, "", numCell64(sql.NullInt64{}))
	assert.Equal(t, "42", numCell32(sql.NullInt32{Int32: 42, Valid: true}))
	assert.Equal(t, "", numCell32(sql.NullInt32{}))
	assert.Equal(t, "3.5", floatCell(sql.NullFloat64{Float64: 3.5, Valid: true}))
	assert.Equal(t, "", floatCell(sql.NullFloat64{}))
}
