package airports

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpereira/go-travel-assistant/internal/types"
)

// fixtureCSV mimics the OpenFlights layout: no header, quoted strings,
// \N for missing values. The Atlantis row has no coordinates and the
// short row is malformed; both must be dropped.
const fixtureCSV = `3670,"Dallas Fort Worth International Airport","Dallas-Fort Worth","United States","DFW","KDFW",32.896801,-97.038002,607,-6,"A","America/Chicago","airport","OurAirports"
3484,"Los Angeles International Airport","Los Angeles","United States","LAX","KLAX",33.94250107,-118.4079971,125,-8,"A","America/Los_Angeles","airport","OurAirports"
3797,"John F Kennedy International Airport","New York","United States","JFK","KJFK",40.63980103,-73.77890015,13,-5,"A","America/New_York","airport","OurAirports"
3697,"La Guardia Airport","New York","United States","LGA","KLGA",40.77719879,-73.87259674,21,-5,"A","America/New_York","airport","OurAirports"
2279,"Narita International Airport","Tokyo","Japan","NRT","RJAA",35.76470184,140.3860016,141,9,"A","Asia/Tokyo","airport","OurAirports"
9999,"Lost City Strip","Atlantis","Nowhere","\N","\N",\N,\N,0,0,"U","\N","airport","User"
8888,"Short Row","Nowhere","\N",1,2
7276,"Sandy Lake Airport","Sandy Lake","Canada","ZSJ","CZSJ",53.06420135,-93.34439849,951,-6,"A","America/Winnipeg","airport","OurAirports"
`

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveFixture(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureCSV))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRepository(t *testing.T) {
	srv := serveFixture(t)

	repo, err := NewRepository(context.Background(), srv.URL, srv.Client(), newTestLogger())
	require.NoError(t, err)

	// The coordinate-less and malformed rows are gone.
	assert.Equal(t, 6, repo.Len())

	rec, ok := repo.LookupByIATA("DFW")
	require.True(t, ok)
	assert.Equal(t, "Dallas Fort Worth International Airport", rec.Name)
	assert.Equal(t, "Dallas-Fort Worth", rec.City)
	assert.Equal(t, "United States", rec.Country)
	assert.Equal(t, "KDFW", rec.ICAO)
	assert.InDelta(t, 32.896801, rec.Latitude, 1e-9)
	assert.InDelta(t, -97.038002, rec.Longitude, 1e-9)
}

func TestNewRepositoryUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRepository(context.Background(), srv.URL, srv.Client(), newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHasIATA(t *testing.T) {
	srv := serveFixture(t)
	repo, err := NewRepository(context.Background(), srv.URL, srv.Client(), newTestLogger())
	require.NoError(t, err)

	assert.True(t, repo.HasIATA("LAX"))
	assert.False(t, repo.HasIATA("lax"), "index holds uppercase codes only")
	assert.False(t, repo.HasIATA("ZZZ"))
	assert.False(t, repo.HasIATA(""), "rows without a code must not index an empty key")
}

func TestSearchByCity(t *testing.T) {
	srv := serveFixture(t)
	repo, err := NewRepository(context.Background(), srv.URL, srv.Client(), newTestLogger())
	require.NoError(t, err)

	t.Run("multiple matches preserve table order", func(t *testing.T) {
		got := repo.SearchByCity("New York")
		require.Len(t, got, 2)
		assert.Equal(t, "JFK", got[0].IATA)
		assert.Equal(t, "LGA", got[1].IATA)
	})

	t.Run("case-insensitive substring", func(t *testing.T) {
		got := repo.SearchByCity("tokyo")
		require.Len(t, got, 1)
		assert.Equal(t, "NRT", got[0].IATA)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, repo.SearchByCity("gotham"))
	})

	t.Run("blank query matches nothing", func(t *testing.T) {
		assert.Empty(t, repo.SearchByCity("   "))
	})
}

func TestSearchByName(t *testing.T) {
	srv := serveFixture(t)
	repo, err := NewRepository(context.Background(), srv.URL, srv.Client(), newTestLogger())
	require.NoError(t, err)

	got := repo.SearchByName("la guardia")
	require.Len(t, got, 1)
	assert.Equal(t, "LGA", got[0].IATA)

	assert.Empty(t, repo.SearchByName("xyzzy"))
}

func TestNewFromRecords(t *testing.T) {
	records := []types.AirportRecord{
		{ID: 1, Name: "Alpha Field", City: "Alpha", IATA: "AAA", Latitude: 1, Longitude: 2},
		{ID: 2, Name: "Alpha Field Two", City: "Alpha", IATA: "AAB", Latitude: 3, Longitude: 4},
	}
	repo := NewFromRecords(records, newTestLogger())

	assert.Equal(t, 2, repo.Len())
	rec, ok := repo.LookupByIATA("AAB")
	require.True(t, ok)
	assert.Equal(t, 2, rec.ID)
	assert.Len(t, repo.SearchByCity("alpha"), 2)
}
