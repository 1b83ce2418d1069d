package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	t.Run("valid tags", func(t *testing.T) {
		for _, tag := range []string{"1week", "1month", "3months", "6months"} {
			w, err := ParseWindow(tag)
			require.NoError(t, err)
			assert.Equal(t, tag, w.String())
		}
	})

	t.Run("invalid tag", func(t *testing.T) {
		_, err := ParseWindow("2weeks")
		assert.ErrorIs(t, err, ErrInvalidWindow)

		_, err = ParseWindow("")
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestWindowStartDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC), Window1Week.StartDate(now))
	assert.Equal(t, time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC), Window1Month.StartDate(now))
	assert.Equal(t, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), Window3Months.StartDate(now))
	assert.Equal(t, time.Date(2023, 12, 15, 12, 0, 0, 0, time.UTC), Window6Months.StartDate(now))
}

func TestWindowBucketStart(t *testing.T) {
	// 2024-05-23 is a Thursday.
	thursday := time.Date(2024, 5, 23, 14, 30, 0, 0, time.UTC)

	t.Run("short windows truncate to the day", func(t *testing.T) {
		day := time.Date(2024, 5, 23, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, day, Window1Week.BucketStart(thursday))
		assert.Equal(t, day, Window1Month.BucketStart(thursday))
	})

	t.Run("long windows truncate to the Monday of the week", func(t *testing.T) {
		monday := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, monday, Window3Months.BucketStart(thursday))
		assert.Equal(t, monday, Window6Months.BucketStart(thursday))
	})

	t.Run("sunday belongs to the preceding Monday's week", func(t *testing.T) {
		sunday := time.Date(2024, 5, 26, 8, 0, 0, 0, time.UTC)
		monday := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, monday, Window3Months.BucketStart(sunday))
	})
}

func TestReportRecordIsExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, ReportRecord{}.IsExpired(now))
	assert.False(t, ReportRecord{ExpiresAt: &future}.IsExpired(now))
	assert.True(t, ReportRecord{ExpiresAt: &past}.IsExpired(now))
}
