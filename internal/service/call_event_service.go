// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// CallEventService folds normalized room events into call state. It is the
// consumer side of the webhook pipeline: events arrive via NATS in any order
// and possibly more than once, so every handler is written to be idempotent
// and order-tolerant.
type CallEventService struct {
	callRepository       domain.CallRepository
	transcriptRepository domain.TranscriptRepository
	transcriptTagger     domain.TranscriptTagger
	messageBuilder       domain.MessageBuilder
}

// NewCallEventService creates a new CallEventService
func NewCallEventService(
	callRepository domain.CallRepository,
	transcriptRepository domain.TranscriptRepository,
	transcriptTagger domain.TranscriptTagger,
	messageBuilder domain.MessageBuilder,
) *CallEventService {
	return &CallEventService{
		callRepository:       callRepository,
		transcriptRepository: transcriptRepository,
		transcriptTagger:     transcriptTagger,
		messageBuilder:       messageBuilder,
	}
}

// ServiceReady checks if the service is ready to process events
func (s *CallEventService) ServiceReady() bool {
	return s.callRepository != nil &&
		s.transcriptRepository != nil &&
		s.transcriptTagger != nil &&
		s.messageBuilder != nil
}

// parseRoomEvent is a helper to parse room event messages. A payload that
// doesn't unmarshal is a validation error: redelivering it can never succeed.
func (s *CallEventService) parseRoomEvent(ctx context.Context, msg domain.Message) (*models.RoomEventMessage, error) {
	var event models.RoomEventMessage
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal room event", logging.ErrKey, err)
		return nil, domain.NewValidationError("invalid room event message", err)
	}
	return &event, nil
}
