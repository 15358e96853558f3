// Package samplingsvc - Test suy khoảng ngày và filter eligibility.
package samplingsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	samplingmodels "agri_connect/internal/api/sampling/models"
)

func TestStartEndOfDayMillis(t *testing.T) {
	// 2024-03-15 13:45:30 UTC
	ms := time.Date(2024, 3, 15, 13, 45, 30, 0, time.UTC).UnixMilli()

	start := startOfDayMillis(ms)
	end := endOfDayMillis(ms)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).UnixMilli(), start)
	assert.Equal(t, start+24*time.Hour.Milliseconds()-1, end)
	// Mốc đã ở đầu ngày giữ nguyên
	assert.Equal(t, start, startOfDayMillis(start))
}

func TestFollowUpRange_OverlapsPriorBoundaryDay(t *testing.T) {
	lastDateTo := time.Date(2024, 3, 10, 16, 20, 0, 0, time.UTC).UnixMilli()
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	from, to := followUpRange(lastDateTo, now)

	// Bắt đầu từ đầu ngày biên của run trước (chồng lấn 1 ngày)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC).UnixMilli(), from)
	assert.LessOrEqual(t, from, lastDateTo)
	// Kết thúc cuối ngày hôm nay
	assert.Equal(t, endOfDayMillis(now.UnixMilli()), to)
}

func TestFallbackRange_Spans30Days(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	from, to := fallbackRange(now)

	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC).UnixMilli(), from)
	assert.Equal(t, endOfDayMillis(now.UnixMilli()), to)
}

func TestBuildEligibilityFilter(t *testing.T) {
	filter := BuildEligibilityFilter(100, 200, []string{"field_visit", "demo"})

	assert.Equal(t, false, filter["firstSampleRun"])
	assert.Equal(t, samplingmodels.ActivityStatusActive, filter["status"])
	assert.Equal(t, bson.M{"$exists": true}, filter["farmers.0"])
	assert.Equal(t, bson.M{"$gte": int64(100), "$lte": int64(200)}, filter["date"])
	assert.Equal(t, bson.M{"$in": []string{"field_visit", "demo"}}, filter["type"])
}

func TestBuildEligibilityFilter_OptionalParts(t *testing.T) {
	// Không khoảng ngày, không giới hạn loại
	filter := BuildEligibilityFilter(0, 0, nil)
	_, hasDate := filter["date"]
	_, hasType := filter["type"]
	assert.False(t, hasDate)
	assert.False(t, hasType)

	// Chỉ có cận dưới
	filter = BuildEligibilityFilter(100, 0, nil)
	require.Contains(t, filter, "date")
	assert.Equal(t, bson.M{"$gte": int64(100)}, filter["date"])
}
