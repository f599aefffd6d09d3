package chat

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jpereira/go-travel-assistant/app/observability/metrics"
	"github.com/jpereira/go-travel-assistant/internal/api/airports"
	"github.com/jpereira/go-travel-assistant/internal/api/location"
	"github.com/jpereira/go-travel-assistant/internal/api/policy"
	"github.com/jpereira/go-travel-assistant/internal/types"
)

// Keyword sets deciding which branch owns a message. They are fixed at
// compile time and shared by every request; matching is plain substring
// containment against the normalized text.
var (
	liquidsKeywords = []string{"liquid", "toiletries", "3-1-1", "3 1 1", "100ml", "100 ml"}
	batteryKeywords = []string{"power bank", "powerbank", "battery", "lithium", "mah", "wh"}
	baggageKeywords = []string{"baggage", "luggage", "checked bag", "carry-on", "carry on", "bag fee", "bags"}
	flightKeywords  = []string{"flight", "flights", "aircraft", "planes", "plane", "over", "near", "around", "in"}
)

const maxExampleAircraft = 5

const helpText = "I can help with airport codes/names, live aircraft near a place, liquids/battery rules, " +
	"and airline baggage links. Try: " +
	"'planes over LAX', 'Any flights near New York?', " +
	"'what's the liquids rule?', 'can I carry 20000 mAh power bank at 5V?', " +
	"'United baggage allowance'."

// TrafficClient is the single outbound dependency of the router.
type TrafficClient interface {
	StatesInBox(ctx context.Context, box types.BoundingBox) ([]types.AircraftState, error)
}

// query carries both casings of one message: IATA detection needs the
// original case, everything else works on the normalized form.
type query struct {
	raw        string
	normalized string
}

// route is one (predicate, handler) pair. A handler may decline by
// returning handled=false, in which case evaluation falls through to the
// next route; the final route always handles.
type route struct {
	intent string
	match  func(q query) bool
	handle func(ctx context.Context, q query) (types.ChatResponse, bool)
}

// Service is the intent router. It holds no per-request state; the route
// order is behaviorally significant and must not change (a message
// matching both liquids and baggage keywords belongs to liquids).
type Service struct {
	logger     *slog.Logger
	directory  *airports.Repository
	locations  *location.Service
	traffic    TrafficClient
	policy     *policy.Service
	paddingDeg float64
	minLonCos  float64
	routes     []route
}

func NewService(
	directory *airports.Repository,
	locations *location.Service,
	traffic TrafficClient,
	policySvc *policy.Service,
	paddingDeg, minLonCos float64,
	logger *slog.Logger,
) *Service {
	if paddingDeg <= 0 {
		paddingDeg = location.DefaultPaddingDeg
	}
	if minLonCos <= 0 {
		minLonCos = location.DefaultMinLonCos
	}
	s := &Service{
		logger:     logger,
		directory:  directory,
		locations:  locations,
		traffic:    traffic,
		policy:     policySvc,
		paddingDeg: paddingDeg,
		minLonCos:  minLonCos,
	}
	s.routes = []route{
		// A message that is nothing but a known code is an airport lookup
		// regardless of which keyword substrings the code happens to
		// contain ("SIN", "MAH"); the keyword routes keep their order for
		// everything else.
		{"lookup", s.matchBareCode, s.handleLookup},
		{"liquids", keywordMatch(liquidsKeywords), s.handleLiquids},
		{"battery", keywordMatch(batteryKeywords), s.handleBattery},
		{"baggage", keywordMatch(baggageKeywords), s.handleBaggage},
		{"flights", keywordMatch(flightKeywords), s.handleFlights},
		{"lookup", matchAlways, s.handleLookup},
		{"help", matchAlways, s.handleHelp},
	}
	return s
}

func keywordMatch(keywords []string) func(q query) bool {
	return func(q query) bool {
		for _, k := range keywords {
			if strings.Contains(q.normalized, k) {
				return true
			}
		}
		return false
	}
}

func matchAlways(query) bool { return true }

// matchBareCode reports whether the whole message is exactly a known
// 3-letter IATA code, in either case.
func (s *Service) matchBareCode(q query) bool {
	return len(q.raw) == 3 && len(s.locations.DetectIATACodes(q.raw)) > 0
}

// Answer routes one message through the ordered routes, first match wins.
func (s *Service) Answer(ctx context.Context, message string) types.ChatResponse {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Answer")
	defer span.End()

	q := query{
		raw:        strings.TrimSpace(message),
		normalized: normalize(message),
	}

	for _, rt := range s.routes {
		if !rt.match(q) {
			continue
		}
		resp, handled := rt.handle(ctx, q)
		if !handled {
			continue
		}
		span.SetAttributes(attribute.String("chat.intent", rt.intent))
		s.logger.InfoContext(ctx, "Routed chat message", slog.String("intent", rt.intent))
		if m := metrics.Get(); m != nil {
			m.IntentRoutedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", rt.intent)))
		}
		return resp
	}

	// The help route always handles; this is unreachable.
	return types.ChatResponse{Answer: helpText}
}

// normalize lowercases and collapses whitespace.
func normalize(message string) string {
	return strings.Join(strings.Fields(strings.ToLower(message)), " ")
}

func (s *Service) handleLiquids(context.Context, query) (types.ChatResponse, bool) {
	answer, source := s.policy.LiquidsSummary()
	return types.ChatResponse{Answer: answer, Source: source}, true
}

func (s *Service) handleBattery(_ context.Context, q query) (types.ChatResponse, bool) {
	if est, ok := s.policy.EstimatePowerBank(q.normalized); ok {
		return types.ChatResponse{
			Answer: s.policy.PowerBankVerdict(est),
			Source: s.policy.BatterySourceURL(),
		}, true
	}
	// No parsable spec in the text: fall back to the generic FAQ.
	answer, source := s.policy.BatterySummary()
	return types.ChatResponse{Answer: answer, Source: source}, true
}

func (s *Service) handleBaggage(_ context.Context, q query) (types.ChatResponse, bool) {
	if name, link, ok := s.policy.BaggageLink(q.normalized); ok {
		return types.ChatResponse{
			Answer: fmt.Sprintf("Here's the official baggage policy for %s:", name),
			Source: link,
		}, true
	}
	return types.ChatResponse{
		Answer: "Tell me the airline (e.g., 'baggage for United', 'AA baggage allowance', " +
			"'Delta carry-on size') and I'll fetch the official policy link.",
	}, true
}

func (s *Service) handleFlights(ctx context.Context, q query) (types.ChatResponse, bool) {
	point, ok := s.flightPoint(ctx, q)
	if !ok {
		// Flight keywords matched but no place could be parsed; let the
		// direct lookup take a shot instead of erroring.
		return types.ChatResponse{}, false
	}

	box := location.BoundingBoxAround(point, s.paddingDeg, s.minLonCos)
	states, err := s.traffic.StatesInBox(ctx, box)
	if err != nil {
		s.logger.WarnContext(ctx, "Live-traffic query failed", slog.Any("error", err))
		if m := metrics.Get(); m != nil {
			m.UpstreamErrorsTotal.Add(ctx, 1)
		}
		return types.ChatResponse{
			Answer: fmt.Sprintf("Could not fetch live data (%v). Try again shortly.", err),
		}, true
	}

	if len(states) == 0 {
		return types.ChatResponse{
			Answer: fmt.Sprintf("No live aircraft found near %s right now.", point.Label),
		}, true
	}

	examples := make([]string, 0, maxExampleAircraft)
	for _, st := range states {
		if len(examples) == maxExampleAircraft {
			break
		}
		callsign := strings.TrimSpace(st.Callsign)
		if callsign == "" {
			callsign = "unknown"
		}
		altM := 0.0
		if st.BaroAltitudeM != nil {
			altM = *st.BaroAltitudeM
		}
		examples = append(examples, fmt.Sprintf("%s at %d m", callsign, int(math.Round(altM))))
	}

	// len(states) counts only the vectors complete enough to parse; the
	// client drops short vectors at the boundary, so this can run below
	// the upstream's raw "states" length.
	return types.ChatResponse{
		Answer: fmt.Sprintf("Found %d aircraft near %s. Examples: %s.",
			len(states), point.Label, strings.Join(examples, ", ")),
	}, true
}

// flightPoint resolves where to look: an intentionally typed IATA code
// wins and maps to the exact airport, otherwise the free-text resolver
// runs on the normalized message.
func (s *Service) flightPoint(ctx context.Context, q query) (types.GeoPoint, bool) {
	for _, code := range s.locations.DetectIATACodes(q.raw) {
		rec, ok := s.directory.LookupByIATA(code)
		if !ok {
			continue
		}
		return types.GeoPoint{
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Label:     fmt.Sprintf("%s - %s (%s)", rec.IATA, rec.Name, rec.City),
		}, true
	}
	return s.locations.Resolve(ctx, q.normalized)
}

func (s *Service) handleLookup(_ context.Context, q query) (types.ChatResponse, bool) {
	for _, code := range s.locations.DetectIATACodes(q.raw) {
		rec, ok := s.directory.LookupByIATA(code)
		if !ok {
			continue
		}
		return types.ChatResponse{
			Answer: fmt.Sprintf("%s = %s in %s, %s (ICAO %s).",
				rec.IATA, rec.Name, rec.City, rec.Country, rec.ICAO),
		}, true
	}

	if byCity := s.directory.SearchByCity(q.normalized); len(byCity) > 0 {
		rec := byCity[0]
		return types.ChatResponse{
			Answer: fmt.Sprintf("Airport in %s: %s (IATA %s, ICAO %s).",
				rec.City, rec.Name, rec.IATA, rec.ICAO),
		}, true
	}

	if byName := s.directory.SearchByName(q.normalized); len(byName) > 0 {
		rec := byName[0]
		return types.ChatResponse{
			Answer: fmt.Sprintf("%s is in %s, %s (IATA %s, ICAO %s).",
				rec.Name, rec.City, rec.Country, rec.IATA, rec.ICAO),
		}, true
	}

	return types.ChatResponse{}, false
}

func (s *Service) handleHelp(context.Context, query) (types.ChatResponse, bool) {
	return types.ChatResponse{Answer: helpText}, true
}
