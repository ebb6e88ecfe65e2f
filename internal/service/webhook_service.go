// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/metrics"
)

// WebhookIntakeService handles inbound room event webhook deliveries: it
// verifies the signature, resolves the project, writes the audit record,
// normalizes the event and hands it off to NATS for async processing.
type WebhookIntakeService struct {
	webhookValidator  domain.WebhookValidator
	projectRepository domain.ProjectRepository
	auditRepository   domain.AuditRepository
	messageSender     domain.RoomEventSender
}

// WebhookRequest represents one inbound webhook delivery.
type WebhookRequest struct {
	ProjectSlug string
	AuthHeader  string
	RawBody     []byte
	ReceivedAt  time.Time
}

// WebhookResponse is the acknowledgment returned to the event sender.
type WebhookResponse struct {
	OK      bool `json:"ok"`
	Skipped bool `json:"skipped,omitempty"`
}

// NewWebhookIntakeService creates a new WebhookIntakeService
func NewWebhookIntakeService(
	webhookValidator domain.WebhookValidator,
	projectRepository domain.ProjectRepository,
	auditRepository domain.AuditRepository,
	messageSender domain.RoomEventSender,
) *WebhookIntakeService {
	return &WebhookIntakeService{
		webhookValidator:  webhookValidator,
		projectRepository: projectRepository,
		auditRepository:   auditRepository,
		messageSender:     messageSender,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *WebhookIntakeService) ServiceReady() bool {
	return s.webhookValidator != nil &&
		s.projectRepository != nil &&
		s.auditRepository != nil &&
		s.messageSender != nil
}

// ProcessWebhookEvent processes one webhook delivery. Unknown or inactive
// projects are acknowledged without any mutation so the sender stops
// redelivering; only signature failures and persistence failures surface as
// errors.
func (s *WebhookIntakeService) ProcessWebhookEvent(ctx context.Context, req WebhookRequest) (*WebhookResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.webhookValidator.ValidateSignature(req.RawBody, req.AuthHeader); err != nil {
		metrics.WebhookEventsRejected.Inc()
		return nil, domain.NewValidationError("invalid webhook signature", err)
	}

	event, err := models.NormalizeRoomEvent(req.RawBody, req.ReceivedAt)
	if err != nil {
		return nil, domain.NewValidationError("malformed webhook payload", err)
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_kind", event.RawKind))
	ctx = logging.AppendCtx(ctx, slog.String("project_slug", req.ProjectSlug))
	metrics.WebhookEventsReceived.WithLabelValues(event.RawKind).Inc()

	project, err := s.projectRepository.GetBySlug(ctx, req.ProjectSlug)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			// Not an error: acking unknown projects stops redelivery storms.
			metrics.WebhookEventsSkipped.WithLabelValues("unknown_project").Inc()
			slog.WarnContext(ctx, "webhook event for unknown project, acknowledging without processing")
			return &WebhookResponse{OK: true, Skipped: true}, nil
		}
		slog.ErrorContext(ctx, "failed to resolve project", logging.ErrKey, err)
		return nil, err
	}

	if !project.Active {
		metrics.WebhookEventsSkipped.WithLabelValues("inactive_project").Inc()
		slog.WarnContext(ctx, "webhook event for inactive project, acknowledging without processing")
		return &WebhookResponse{OK: true, Skipped: true}, nil
	}

	event.OrgID = project.OrgID
	event.ProjectSlug = project.Slug
	ctx = logging.AppendCtx(ctx, slog.String("org_id", project.OrgID))

	s.recordAuditEvent(ctx, event, req.ReceivedAt)

	if event.Kind == models.RoomEventKindUnknown {
		// Unrecognized kinds are audited but never folded into call state.
		metrics.WebhookEventsSkipped.WithLabelValues("unknown_kind").Inc()
		slog.InfoContext(ctx, "unrecognized event kind, audit only")
		return &WebhookResponse{OK: true}, nil
	}

	subject := models.RoomEventSubject(event.Kind)
	if err := s.messageSender.PublishRoomEvent(ctx, subject, *event); err != nil {
		slog.ErrorContext(ctx, "failed to publish room event to NATS",
			logging.ErrKey, err,
			"subject", subject,
		)
		return nil, domain.NewInternalError("failed to process webhook event", err)
	}

	slog.InfoContext(ctx, "room event published to NATS", "subject", subject)

	return &WebhookResponse{OK: true}, nil
}

// validateRequest validates the webhook request structure
func (s *WebhookIntakeService) validateRequest(req WebhookRequest) error {
	if req.ProjectSlug == "" {
		return domain.NewValidationError("missing project slug")
	}

	if len(req.RawBody) == 0 {
		return domain.NewValidationError("missing request body")
	}

	if req.AuthHeader == "" {
		return domain.NewValidationError("missing authorization header")
	}

	return nil
}

// recordAuditEvent appends the raw event to the audit trail. Best effort:
// an audit write failure never blocks event processing.
func (s *WebhookIntakeService) recordAuditEvent(ctx context.Context, event *models.RoomEventMessage, receivedAt time.Time) {
	record := &models.RawEventRecord{
		UID:         uuid.New().String(),
		OrgID:       event.OrgID,
		ProjectSlug: event.ProjectSlug,
		Kind:        event.RawKind,
		ReceivedAt:  receivedAt,
		Payload:     event.Payload,
	}

	if err := s.auditRepository.Create(ctx, record); err != nil {
		slog.ErrorContext(ctx, "failed to write audit record", logging.ErrKey, err)
	}
}
