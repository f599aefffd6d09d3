package airports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpereira/go-travel-assistant/internal/types"
)

func setupHandlerTest() *httptest.Server {
	records := []types.AirportRecord{
		{ID: 3484, Name: "Los Angeles International Airport", City: "Los Angeles", Country: "United States",
			IATA: "LAX", ICAO: "KLAX", Latitude: 33.9425, Longitude: -118.408},
	}
	repo := NewFromRecords(records, newTestLogger())
	handler := NewAirportsHandler(repo, newTestLogger())

	r := chi.NewRouter()
	r.Get("/airports/{code}", handler.GetByCode)
	return httptest.NewServer(r)
}

func TestGetByCode(t *testing.T) {
	srv := setupHandlerTest()
	defer srv.Close()

	t.Run("known code", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/airports/lax")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var rec types.AirportRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
		assert.Equal(t, "LAX", rec.IATA)
		assert.Equal(t, "Los Angeles International Airport", rec.Name)
	})

	t.Run("unknown code", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/airports/ZZZ")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("not a code", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/airports/gotham")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
