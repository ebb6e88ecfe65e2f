// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

// Package handlers contains the NATS message handlers and the HTTP webhook
// handler for the ingestion pipeline.
package handlers

import (
	"context"
	"log/slog"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/service"
)

// RoomEventHandler dispatches normalized room event messages to the call
// event reducer. Room events arrive through a JetStream consumer, so a
// returned error drives a redelivery rather than being swallowed.
type RoomEventHandler struct {
	callEventService *service.CallEventService
}

func NewRoomEventHandler(callEventService *service.CallEventService) *RoomEventHandler {
	return &RoomEventHandler{
		callEventService: callEventService,
	}
}

func (h *RoomEventHandler) HandlerReady() bool {
	return h.callEventService.ServiceReady()
}

// HandleRoomEvent dispatches a room event message by subject. The error
// return is the redelivery signal: a datastore failure must surface so the
// consumer naks the message instead of acking a lost event. Unknown subjects
// are logged and dropped, since redelivering them can never succeed.
func (h *RoomEventHandler) HandleRoomEvent(ctx context.Context, msg domain.Message) error {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling room event message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.RoomStartedSubject:       h.callEventService.HandleRoomStarted,
		models.RoomFinishedSubject:      h.callEventService.HandleRoomFinished,
		models.ParticipantJoinedSubject: h.callEventService.HandleParticipantJoined,
		models.TrackPublishedSubject:    h.callEventService.HandleTrackPublished,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		return nil
	}

	_, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling room event message",
			logging.ErrKey, err,
		)
		return err
	}

	slog.DebugContext(ctx, "handled room event message")
	return nil
}
