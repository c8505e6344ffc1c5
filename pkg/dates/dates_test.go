package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty stays empty", "", ""},
		{"iso date unchanged", "2025-03-10", "2025-03-10"},
		{"iso timestamp truncated", "2025-03-10T14:22:09.120Z", "2025-03-10"},
		{"slash format converted", "10/03/2025", "2025-03-10"},
		{"slash format end of year", "31/12/2024", "2024-12-31"},
		{"space-separated timestamp", "2025-03-10 09:00:00", "2025-03-10"},
		{"slash ymd", "2025/03/10", "2025-03-10"},
		{"written month", "Mar 10, 2025", "2025-03-10"},
		{"unparseable passed through", "next tuesday", "next tuesday"},
		{"garbage passed through", "??", "??"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestParseDay(t *testing.T) {
	t.Run("canonical input", func(t *testing.T) {
		d, err := ParseDay("2025-03-10")
		require.NoError(t, err)
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, time.March, d.Month())
		assert.Equal(t, 10, d.Day())
		assert.Zero(t, d.Hour())
	})

	t.Run("slash input normalized first", func(t *testing.T) {
		d, err := ParseDay("10/03/2025")
		require.NoError(t, err)
		assert.Equal(t, 10, d.Day())
	})

	t.Run("unparseable input errors", func(t *testing.T) {
		_, err := ParseDay("soon")
		assert.Error(t, err)
	})
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	night := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	nextDay := time.Date(2025, 3, 11, 0, 0, 1, 0, time.Local)

	assert.True(t, SameDay(morning, night))
	assert.False(t, SameDay(night, nextDay))
}

func TestIsFuture(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

	t.Run("later today is not future", func(t *testing.T) {
		assert.False(t, IsFuture(time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local), now))
	})

	t.Run("tomorrow is future", func(t *testing.T) {
		assert.True(t, IsFuture(now.AddDate(0, 0, 1), now))
	})

	t.Run("yesterday is not future", func(t *testing.T) {
		assert.False(t, IsFuture(now.AddDate(0, 0, -1), now))
	})
}
