package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentalDays(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("EndDateIsExclusive", func(t *testing.T) {
		days, err := RentalDays(day(1), day(5))
		require.NoError(t, err)
		assert.Equal(t, int32(4), days)
	})

	t.Run("SingleDay", func(t *testing.T) {
		days, err := RentalDays(day(1), day(2))
		require.NoError(t, err)
		assert.Equal(t, int32(1), days)
	})

	t.Run("EqualDatesRejected", func(t *testing.T) {
		_, err := RentalDays(day(5), day(5))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("ReversedDatesRejected", func(t *testing.T) {
		_, err := RentalDays(day(5), day(1))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestRentalTotalCents(t *testing.T) {
	assert.Equal(t, int64(6000), RentalTotalCents(1500, 4))
	assert.Equal(t, int64(0), RentalTotalCents(0, 10))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), parsed)

	for _, input := range []string{"15/03/2026", "not-a-date", ""} {
		_, err = ParseDate(input)
		assert.ErrorIs(t, err, ErrInvalidDate, input)
	}
}
