// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"log/slog"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/service"
)

// NotificationHandler dispatches notification messages to the notification
// service.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) HandlerReady() bool {
	return h.notificationService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *NotificationHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.NewCallNotificationSubject: h.notificationService.HandleNewCallNotification,
		models.EmployeeInviteSubject:      h.notificationService.HandleEmployeeInvite,
		models.TaskAssignedSubject:        h.notificationService.HandleTaskAssigned,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		return
	}

	// Notification messages never expect a reply; send failures are logged
	// inside the service and dropped.
	_, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling notification message",
			logging.ErrKey, err,
		)
		return
	}

	slog.DebugContext(ctx, "handled NATS message (no reply expected)")
}
