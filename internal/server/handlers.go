package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shahar-caura/aura/internal/router"
)

// Handlers implements StrictServerInterface.
type Handlers struct {
	Router    ChatRouter
	Metrics   *Metrics
	Version   string
	StartTime time.Time
	Logger    *slog.Logger
}

func (h *Handlers) PostChat(ctx context.Context, request PostChatRequestObject) (PostChatResponseObject, error) {
	if request.Body == nil {
		return PostChat400JSONResponse{Code: http.StatusBadRequest, Message: "missing request body"}, nil
	}
	h.Metrics.CountRequest("http")
	resp := h.Router.Route(ctx, strings.TrimSpace(request.Body.Message))
	return PostChat200JSONResponse{Response: resp.Text}, nil
}

func (h *Handlers) GetHealth(_ context.Context, _ GetHealthRequestObject) (GetHealthResponseObject, error) {
	return GetHealth200JSONResponse{
		Status:        "ok",
		Version:       h.Version,
		UptimeSeconds: int(time.Since(h.StartTime).Seconds()),
	}, nil
}

// RequestIDMiddleware tags every operation with a fresh request ID, echoed
// in the X-Request-ID response header.
func RequestIDMiddleware(logger *slog.Logger) StrictMiddlewareFunc {
	return func(f StrictHandlerFunc, operationID string) StrictHandlerFunc {
		return func(ctx context.Context, w http.ResponseWriter, r *http.Request, request any) (any, error) {
			id := uuid.NewString()
			w.Header().Set("X-Request-ID", id)
			start := time.Now()

			resp, err := f(router.WithRequestID(ctx, id), w, r, request)

			logger.Debug("api request", "request_id", id, "operation", operationID, "duration", time.Since(start))
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("api request failed", "request_id", id, "operation", operationID, "error", err)
			}
			return resp, err
		}
	}
}
