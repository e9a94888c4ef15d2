package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markushhgo/parkkihubi/internal/domain"
	"github.com/markushhgo/parkkihubi/internal/pkg/clock"
	"github.com/markushhgo/parkkihubi/internal/pkg/errors"
)

func TestParseCheckTime(t *testing.T) {
	t.Run("empty means no override", func(t *testing.T) {
		parsed, err := parseCheckTime("")
		require.NoError(t, err)
		assert.Nil(t, parsed)
	})

	t.Run("offset timestamps are accepted", func(t *testing.T) {
		for _, s := range []string{
			"2024-06-15T12:00:00Z",
			"2024-06-15T12:00:00+03:00",
			"2024-06-15T12:00:00.123456-05:00",
		} {
			parsed, err := parseCheckTime(s)
			require.NoError(t, err, s)
			require.NotNil(t, parsed, s)
		}
	})

	t.Run("naive timestamps are rejected", func(t *testing.T) {
		for _, s := range []string{
			"2024-06-15T12:00:00",
			"2024-06-15 12:00:00",
			"2024-06-15",
		} {
			_, err := parseCheckTime(s)
			assert.Equal(t, errors.ErrNaiveTimestamp, err, s)
		}
	})

	t.Run("garbage is invalid", func(t *testing.T) {
		_, err := parseCheckTime("not-a-time")
		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrInvalidRequest.Code, appErr.Code)
	})

	t.Run("offset is preserved", func(t *testing.T) {
		parsed, err := parseCheckTime("2024-06-15T12:00:00+03:00")
		require.NoError(t, err)
		_, offset := parsed.Zone()
		assert.Equal(t, 3*60*60, offset)
		assert.True(t, parsed.Equal(time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)))
	})
}

func TestBlurCount(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{0, 0},
		{1, 0},
		{3, 0},
		{4, 4},
		{120, 120},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, blurCount(tt.count))
	}
}

func TestCheckBodyCarriesDetails(t *testing.T) {
	payload := `{
		"registration_number": "abc-123",
		"location": {"latitude": 60.17, "longitude": 24.94},
		"time": "2024-06-15T12:00:00Z",
		"details": ["permissions", "operator"]
	}`

	var body checkBody
	require.NoError(t, json.Unmarshal([]byte(payload), &body))
	assert.Equal(t, []string{"permissions", "operator"}, body.Details)
	assert.Equal(t, "abc-123", body.RegistrationNumber)
}

func TestEventAreaResponse(t *testing.T) {
	area := &domain.EventArea{
		TimeStart: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeEnd:   time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
	}

	t.Run("active inside the event window", func(t *testing.T) {
		resp := newEventAreaResponse(area, clock.Fixed(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)))
		assert.True(t, resp.IsActive)
	})

	t.Run("inactive after the event window", func(t *testing.T) {
		resp := newEventAreaResponse(area, clock.Fixed(time.Date(2024, 6, 25, 12, 0, 0, 0, time.UTC)))
		assert.False(t, resp.IsActive)
	})

	t.Run("recurrence window gates activity", func(t *testing.T) {
		start, end := "08:00", "16:00"
		windowed := &domain.EventArea{
			TimeStart:            area.TimeStart,
			TimeEnd:              area.TimeEnd,
			TimePeriodTimeStart:  &start,
			TimePeriodTimeEnd:    &end,
			TimePeriodDaysOfWeek: []int64{1}, // Monday
		}
		monday := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
		resp := newEventAreaResponse(windowed, clock.Fixed(monday))
		assert.True(t, resp.IsActive)

		resp = newEventAreaResponse(windowed, clock.Fixed(monday.AddDate(0, 0, 1)))
		assert.False(t, resp.IsActive)
	})

	t.Run("activity is serialized", func(t *testing.T) {
		resp := newEventAreaResponse(area, clock.Fixed(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)))
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"is_active":true`)
	})
}
