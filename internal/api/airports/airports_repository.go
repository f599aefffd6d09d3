package airports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jpereira/go-travel-assistant/internal/types"
)

// Column layout of the OpenFlights airports table.
const expectedColumns = 14

// Repository is the in-memory airport directory. It is loaded once at
// startup and never mutated, so it is safe for any number of concurrent
// readers.
type Repository struct {
	logger    *slog.Logger
	records   []types.AirportRecord
	cityLower []string
	nameLower []string
	iataIndex map[string]int
}

// NewRepository fetches the airports dataset from url and builds the
// directory. The service cannot run without it, so callers should treat an
// error here as fatal.
func NewRepository(ctx context.Context, url string, client *http.Client, logger *slog.Logger) (*Repository, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating dataset request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching airports dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airports dataset returned status %d", resp.StatusCode)
	}

	records, err := parseDataset(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("airports dataset contained no usable rows")
	}

	repo := NewFromRecords(records, logger)
	logger.Info("Airport directory loaded", slog.Int("airports", len(records)))
	return repo, nil
}

// NewFromRecords builds a directory from already-parsed records.
func NewFromRecords(records []types.AirportRecord, logger *slog.Logger) *Repository {
	r := &Repository{
		logger:    logger,
		records:   records,
		cityLower: make([]string, len(records)),
		nameLower: make([]string, len(records)),
		iataIndex: make(map[string]int),
	}
	for i, rec := range records {
		r.cityLower[i] = strings.ToLower(rec.City)
		r.nameLower[i] = strings.ToLower(rec.Name)
		if rec.IATA != "" {
			if _, seen := r.iataIndex[rec.IATA]; !seen {
				r.iataIndex[rec.IATA] = i
			}
		}
	}
	return r
}

func parseDataset(body io.Reader) ([]types.AirportRecord, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []types.AirportRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A single mangled line should not sink the whole dataset.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("reading airports dataset: %w", err)
		}
		if len(row) != expectedColumns {
			continue
		}

		lat, latErr := strconv.ParseFloat(row[6], 64)
		lon, lonErr := strconv.ParseFloat(row[7], 64)
		if latErr != nil || lonErr != nil {
			// Rows without coordinates cannot serve any lookup downstream.
			continue
		}

		id, _ := strconv.Atoi(row[0])
		altFt, _ := strconv.ParseFloat(row[8], 64)

		records = append(records, types.AirportRecord{
			ID:         id,
			Name:       nullable(row[1]),
			City:       nullable(row[2]),
			Country:    nullable(row[3]),
			IATA:       strings.ToUpper(nullable(row[4])),
			ICAO:       strings.ToUpper(nullable(row[5])),
			Latitude:   lat,
			Longitude:  lon,
			AltitudeFt: altFt,
			TzOffset:   nullable(row[9]),
			DST:        nullable(row[10]),
			TzName:     nullable(row[11]),
			Type:       nullable(row[12]),
			Source:     nullable(row[13]),
		})
	}
	return records, nil
}

// nullable maps the dataset's \N marker to an empty string.
func nullable(field string) string {
	if field == `\N` {
		return ""
	}
	return field
}

// Len reports how many airports the directory holds.
func (r *Repository) Len() int {
	return len(r.records)
}

// HasIATA reports whether code is a known IATA code. The code must already
// be uppercase.
func (r *Repository) HasIATA(code string) bool {
	_, ok := r.iataIndex[code]
	return ok
}

// LookupByIATA returns the airport with the given uppercase IATA code.
func (r *Repository) LookupByIATA(code string) (types.AirportRecord, bool) {
	i, ok := r.iataIndex[code]
	if !ok {
		return types.AirportRecord{}, false
	}
	return r.records[i], true
}

// SearchByCity returns all airports whose city contains the given text,
// case-insensitively, preserving table order.
func (r *Repository) SearchByCity(substring string) []types.AirportRecord {
	return r.search(r.cityLower, substring)
}

// SearchByName is SearchByCity against the airport-name field.
func (r *Repository) SearchByName(substring string) []types.AirportRecord {
	return r.search(r.nameLower, substring)
}

func (r *Repository) search(haystacks []string, substring string) []types.AirportRecord {
	needle := strings.ToLower(strings.TrimSpace(substring))
	if needle == "" {
		return nil
	}
	var matches []types.AirportRecord
	for i, h := range haystacks {
		if strings.Contains(h, needle) {
			matches = append(matches, r.records[i])
		}
	}
	return matches
}
