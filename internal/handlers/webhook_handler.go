// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/middleware"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/service"
)

// maxWebhookBodyBytes caps the webhook request body size.
const maxWebhookBodyBytes = 1 << 20 // 1 MiB

// WebhookHandler serves the inbound room event webhook endpoint.
type WebhookHandler struct {
	webhookService *service.WebhookIntakeService
}

func NewWebhookHandler(webhookService *service.WebhookIntakeService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

func (h *WebhookHandler) HandlerReady() bool {
	return h.webhookService.ServiceReady()
}

// HandleRoomEvent handles POST deliveries from the room event provider.
// The raw body bytes are passed through untouched: the signature covers
// the exact payload and re-serialization would break verification.
func (h *WebhookHandler) HandleRoomEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectSlug := r.PathValue("projectSlug")
	ctx = logging.AppendCtx(ctx, slog.String("project_slug", projectSlug))

	// Prefer the body captured by the middleware; it holds the exact bytes
	// the signature was computed over.
	body, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
		if err != nil {
			slog.ErrorContext(ctx, "failed to read webhook body", logging.ErrKey, err)
			writeJSONError(ctx, w, http.StatusBadRequest, "failed to read request body")
			return
		}
	}

	response, err := h.webhookService.ProcessWebhookEvent(ctx, service.WebhookRequest{
		ProjectSlug: projectSlug,
		AuthHeader:  r.Header.Get("Authorization"),
		RawBody:     body,
		ReceivedAt:  time.Now().UTC(),
	})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, response)
}

// HandleRoomEventCheck handles GET probes on the webhook path. The provider
// (and humans wiring it up) use this as a reachability check.
func (h *WebhookHandler) HandleRoomEventCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, &service.WebhookResponse{OK: true})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Validation
// failures on this endpoint are authentication failures (bad signature,
// missing credentials) and surface as 401; persistence failures surface as
// 5xx so the sender redelivers.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		status = http.StatusUnauthorized
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	case domain.ErrorTypeUnavailable:
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}

	slog.WarnContext(ctx, "webhook request failed",
		logging.ErrKey, err,
		"status", status,
	)
	writeJSONError(ctx, w, status, err.Error())
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "failed to write response body", logging.ErrKey, err)
	}
}

func writeJSONError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, map[string]string{"error": message})
}
