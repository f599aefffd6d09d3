package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jpereira/go-travel-assistant/internal/types"
)

// DefaultTimeout bounds the single outbound call per request.
const DefaultTimeout = 30 * time.Second

// Client queries the OpenSky states API for live aircraft inside a
// bounding box. Every failure is converted into an error value; it never
// panics and never retries.
type Client struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// openSkyResponse mirrors the JSON shape returned by /states/all. States
// is a list of fixed-position arrays; only callsign (index 1) and
// barometric altitude in metres (index 13) are consumed here.
type openSkyResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}

const (
	callsignIndex = 1
	baroAltIndex  = 13
)

// StatesInBox fetches the live state vectors inside box. An empty
// airspace returns an empty, non-nil slice; callers must treat that as
// distinct from an error.
func (c *Client) StatesInBox(ctx context.Context, box types.BoundingBox) ([]types.AircraftState, error) {
	endpoint := fmt.Sprintf("%s/states/all", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := url.Values{}
	q.Set("lamin", fmt.Sprintf("%.4f", box.LatMin))
	q.Set("lomin", fmt.Sprintf("%.4f", box.LonMin))
	q.Set("lamax", fmt.Sprintf("%.4f", box.LatMax))
	q.Set("lomax", fmt.Sprintf("%.4f", box.LonMax))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	c.logger.DebugContext(ctx, "Querying OpenSky", slog.String("url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying OpenSky: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenSky status %d", resp.StatusCode)
	}

	var raw openSkyResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing OpenSky response: %w", err)
	}

	return wrapStates(raw.States), nil
}

// wrapStates narrows the positional vectors to the fields this service
// reads, isolating the rest of the code from the external schema.
func wrapStates(states [][]any) []types.AircraftState {
	wrapped := make([]types.AircraftState, 0, len(states))
	for _, s := range states {
		if len(s) <= baroAltIndex {
			continue
		}
		var state types.AircraftState
		if cs, ok := s[callsignIndex].(string); ok {
			state.Callsign = cs
		}
		if alt, ok := s[baroAltIndex].(float64); ok {
			state.BaroAltitudeM = &alt
		}
		wrapped = append(wrapped, state)
	}
	return wrapped
}
