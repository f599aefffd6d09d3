package location

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpereira/go-travel-assistant/internal/api/airports"
	"github.com/jpereira/go-travel-assistant/internal/types"
)

func fixtureDirectory() *airports.Repository {
	records := []types.AirportRecord{
		{ID: 3797, Name: "John F Kennedy International Airport", City: "New York", Country: "United States",
			IATA: "JFK", ICAO: "KJFK", Latitude: 40.0, Longitude: -74.0},
		{ID: 3697, Name: "La Guardia Airport", City: "New York", Country: "United States",
			IATA: "LGA", ICAO: "KLGA", Latitude: 42.0, Longitude: -72.0},
		{ID: 3484, Name: "Los Angeles International Airport", City: "Los Angeles", Country: "United States",
			IATA: "LAX", ICAO: "KLAX", Latitude: 33.9425, Longitude: -118.408},
		{ID: 2279, Name: "Narita International Airport", City: "Tokyo", Country: "Japan",
			IATA: "NRT", ICAO: "RJAA", Latitude: 35.7647, Longitude: 140.386},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return airports.NewFromRecords(records, logger)
}

func setupServiceTest() *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(fixtureDirectory(), logger)
}

func TestDetectIATACodes(t *testing.T) {
	service := setupServiceTest()

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"uppercase code in sentence", "planes over LAX please", []string{"LAX"}},
		{"multiple codes keep order", "from JFK to LAX", []string{"JFK", "LAX"}},
		{"lowercase word is not a code", "what can you do for me", nil},
		{"lowercase known code inside text is not a code", "flying to lax tomorrow", nil},
		{"bare lowercase code as whole message", "lax", []string{"LAX"}},
		{"bare uppercase code as whole message", "NRT", []string{"NRT"}},
		{"bare three letters not in index", "zzz", nil},
		{"uppercase word not in index", "THE plane", nil},
		{"three digits are not a code", "747", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.DetectIATACodes(tt.message))
		})
	}
}

func TestResolve(t *testing.T) {
	service := setupServiceTest()
	ctx := context.Background()

	t.Run("cue phrase with multi-airport city averages coordinates", func(t *testing.T) {
		point, ok := service.Resolve(ctx, "any flights near new york")
		require.True(t, ok)
		assert.InDelta(t, 41.0, point.Latitude, 1e-9)
		assert.InDelta(t, -73.0, point.Longitude, 1e-9)
		assert.Equal(t, "New York (United States)", point.Label)
	})

	t.Run("whole text used without cue phrase", func(t *testing.T) {
		point, ok := service.Resolve(ctx, "tokyo")
		require.True(t, ok)
		assert.Equal(t, "Tokyo (Japan)", point.Label)
	})

	t.Run("falls back to airport-name search", func(t *testing.T) {
		point, ok := service.Resolve(ctx, "la guardia")
		require.True(t, ok)
		assert.Equal(t, "La Guardia Airport (New York)", point.Label)
		assert.InDelta(t, 42.0, point.Latitude, 1e-9)
	})

	t.Run("cue phrase over a name", func(t *testing.T) {
		point, ok := service.Resolve(ctx, "anything over narita")
		require.True(t, ok)
		assert.Equal(t, "Narita International Airport (Tokyo)", point.Label)
	})

	t.Run("not found", func(t *testing.T) {
		_, ok := service.Resolve(ctx, "flights near gotham")
		assert.False(t, ok)
	})
}
