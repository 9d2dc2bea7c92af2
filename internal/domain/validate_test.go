package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLatLng(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr string
	}{
		{"origin", 0, 0, ""},
		{"typical", 40.7128, -74.006, ""},
		{"north pole", 90, 0, ""},
		{"south pole", -90, 0, ""},
		{"date line east", 0, 180, ""},
		{"date line west", 0, -180, ""},
		{"latitude too high", 90.0001, 0, "latitude"},
		{"latitude too low", -91, 0, "latitude"},
		{"longitude too high", 0, 180.5, "longitude"},
		{"longitude too low", 0, -181, "longitude"},
		{"both invalid reports latitude first", 95, 200, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLatLng(tt.lat, tt.lng)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTimestampWarnings(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	defer SetClock(nil)

	t.Run("same day", func(t *testing.T) {
		warnings := TimestampWarnings(now.Add(-2 * time.Hour).UnixMilli())
		assert.Empty(t, warnings)
	})

	t.Run("48 hours ahead", func(t *testing.T) {
		warnings := TimestampWarnings(now.Add(48 * time.Hour).UnixMilli())
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "future")
	})

	t.Run("23 hours ahead is fine", func(t *testing.T) {
		warnings := TimestampWarnings(now.Add(23 * time.Hour).UnixMilli())
		assert.Empty(t, warnings)
	})

	t.Run("six years old", func(t *testing.T) {
		warnings := TimestampWarnings(now.AddDate(-6, 0, 0).UnixMilli())
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "old")
	})

	t.Run("four years old is fine", func(t *testing.T) {
		warnings := TimestampWarnings(now.AddDate(-4, 0, 0).UnixMilli())
		assert.Empty(t, warnings)
	})

	t.Run("epoch zero is very old", func(t *testing.T) {
		warnings := TimestampWarnings(0)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "old")
	})
}
