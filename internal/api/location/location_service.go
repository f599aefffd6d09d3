package location

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/jpereira/go-travel-assistant/internal/api/airports"
	"github.com/jpereira/go-travel-assistant/internal/types"
)

var (
	// Whole-word, all-uppercase 3-letter tokens in the original-case text.
	// Lowercase 3-letter words ("for", "air") must not be read as codes.
	iataTokenRe = regexp.MustCompile(`\b[A-Z]{3}\b`)

	// Cue phrase introducing a place in already-lowercased text. The capture
	// is limited to characters that appear in city and airport names.
	cuePhraseRe = regexp.MustCompile(`(?:near|around|over|in|at)\s+([a-z .'\-]+)`)
)

// Service resolves free text to a geographic point using the airport
// directory. A request-scoped GeoPoint is the only thing it produces; it
// keeps no state of its own.
type Service struct {
	logger    *slog.Logger
	directory *airports.Repository
}

func NewService(directory *airports.Repository, logger *slog.Logger) *Service {
	return &Service{
		logger:    logger,
		directory: directory,
	}
}

// DetectIATACodes returns the IATA codes the user intentionally typed, in
// order of appearance. A token only counts when it was written in
// uppercase and exists in the directory, except that a message consisting
// of nothing but 3 letters is accepted in any case ("lax" as the whole
// query clearly means the code).
func (s *Service) DetectIATACodes(original string) []string {
	tokens := iataTokenRe.FindAllString(original, -1)

	if len(tokens) == 0 {
		trimmed := strings.TrimSpace(original)
		if len(trimmed) == 3 && isAlpha(trimmed) {
			tokens = []string{strings.ToUpper(trimmed)}
		}
	}

	var codes []string
	for _, t := range tokens {
		if s.directory.HasIATA(t) {
			codes = append(codes, t)
		}
	}
	return codes
}

// Resolve extracts a best-guess point from normalized (lowercased,
// whitespace-collapsed) text. IATA codes are deliberately not handled
// here: a typed code should resolve to the exact airport, not a city
// average, so the caller runs DetectIATACodes first.
func (s *Service) Resolve(ctx context.Context, normalized string) (types.GeoPoint, bool) {
	_, span := otel.Tracer("LocationService").Start(ctx, "Resolve")
	defer span.End()

	candidate := normalized
	if m := cuePhraseRe.FindStringSubmatch(normalized); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	if byCity := s.directory.SearchByCity(candidate); len(byCity) > 0 {
		lat, lon := meanCoordinates(byCity)
		first := byCity[0]
		return types.GeoPoint{
			Latitude:  lat,
			Longitude: lon,
			Label:     fmt.Sprintf("%s (%s)", first.City, first.Country),
		}, true
	}

	if byName := s.directory.SearchByName(candidate); len(byName) > 0 {
		lat, lon := meanCoordinates(byName)
		first := byName[0]
		return types.GeoPoint{
			Latitude:  lat,
			Longitude: lon,
			Label:     fmt.Sprintf("%s (%s)", first.Name, first.City),
		}, true
	}

	s.logger.DebugContext(ctx, "No location resolved", slog.String("candidate", candidate))
	return types.GeoPoint{}, false
}

// meanCoordinates averages the matches rather than picking one, which
// handles multi-airport cities and accidental multi-matches gracefully.
func meanCoordinates(records []types.AirportRecord) (float64, float64) {
	var latSum, lonSum float64
	for _, r := range records {
		latSum += r.Latitude
		lonSum += r.Longitude
	}
	n := float64(len(records))
	return latSum / n, lonSum / n
}

func isAlpha(s string) bool {
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
