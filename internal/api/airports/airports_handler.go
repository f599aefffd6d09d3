package airports

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jpereira/go-travel-assistant/internal/api"
)

type Handler struct {
	logger     *slog.Logger
	repository *Repository
}

func NewAirportsHandler(repository *Repository, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		repository: repository,
	}
}

// GetByCode handles GET /airports/{code} - returns the airport with the
// given IATA code.
func (h *Handler) GetByCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AirportsHandler").Start(r.Context(), "GetByCode")
	defer span.End()

	l := h.logger.With(slog.String("method", "GetByCode"))

	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if len(code) != 3 {
		l.WarnContext(ctx, "Invalid IATA code", slog.String("code", code))
		span.SetStatus(codes.Error, "Invalid IATA code")
		api.ErrorResponse(w, r, http.StatusBadRequest, "code must be a 3-letter IATA code")
		return
	}

	record, ok := h.repository.LookupByIATA(code)
	if !ok {
		l.InfoContext(ctx, "Unknown IATA code", slog.String("code", code))
		span.SetStatus(codes.Error, "Airport not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "no airport with that IATA code")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, record)
	span.SetStatus(codes.Ok, "Airport returned")
}
