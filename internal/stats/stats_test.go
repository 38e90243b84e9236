package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateGrowthRate(t *testing.T) {
	assert.InDelta(t, 10.0, CalculateGrowthRate(1000, 1100), 0.001)
	assert.InDelta(t, -50.0, CalculateGrowthRate(2000, 1000), 0.001)
	assert.InDelta(t, 0.0, CalculateGrowthRate(500, 500), 0.001)
	assert.InDelta(t, 100.0, CalculateGrowthRate(0, 42), 0.001, "growth from nothing counts as 100 percent")
	assert.InDelta(t, 0.0, CalculateGrowthRate(0, 0), 0.001)
}

func TestCalculateEngagementRate(t *testing.T) {
	assert.InDelta(t, 1.5, CalculateEngagementRate(100, 30, 20, 10000), 0.001)
	assert.InDelta(t, 0.0, CalculateEngagementRate(100, 30, 20, 0), 0.001)
}

func TestMomentumScore(t *testing.T) {
	assert.InDelta(t, 7.6, MomentumScore(10, 2), 0.001)
	assert.InDelta(t, 0.0, MomentumScore(0, 0), 0.001)
}
