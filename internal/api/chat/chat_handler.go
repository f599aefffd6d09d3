package chat

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/jpereira/go-travel-assistant/app/observability/metrics"
	"github.com/jpereira/go-travel-assistant/internal/api"
	"github.com/jpereira/go-travel-assistant/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewChatHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// HandleChat handles POST /chat - routes the message and returns the answer.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), "HandleChat")
	defer span.End()

	l := h.logger.With(slog.String("method", "HandleChat"))
	start := time.Now()

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid chat request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		l.WarnContext(ctx, "Empty chat message")
		span.SetStatus(codes.Error, "Empty message")
		api.ErrorResponse(w, r, http.StatusBadRequest, "message must not be empty")
		return
	}

	resp := h.service.Answer(ctx, req.Message)

	if m := metrics.Get(); m != nil {
		m.ChatRequestsTotal.Add(ctx, 1)
		m.ChatDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
	span.SetStatus(codes.Ok, "Chat answered")
}
