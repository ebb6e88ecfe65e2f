// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/metrics"
	"github.com/bytecrafter52-dot/callisi-ingest-service/pkg/utils"
)

// HandleRoomStarted handles room_started events
func (s *CallEventService) HandleRoomStarted(ctx context.Context, msg domain.Message) ([]byte, error) {
	event, err := s.parseRoomEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_kind", event.RawKind))
	ctx = logging.AppendCtx(ctx, slog.String("external_ref", event.ExternalRef))
	err = s.handleRoomStartedEvent(ctx, *event)
	if err != nil {
		metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to handle room started event", logging.ErrKey, err)
		return nil, err
	}

	metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "successfully processed room started event")
	return nil, nil // No response needed for webhook events
}

// HandleRoomFinished handles room_finished events
func (s *CallEventService) HandleRoomFinished(ctx context.Context, msg domain.Message) ([]byte, error) {
	event, err := s.parseRoomEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_kind", event.RawKind))
	ctx = logging.AppendCtx(ctx, slog.String("external_ref", event.ExternalRef))
	err = s.handleRoomFinishedEvent(ctx, *event)
	if err != nil {
		metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to handle room finished event", logging.ErrKey, err)
		return nil, err
	}

	metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "successfully processed room finished event")
	return nil, nil // No response needed for webhook events
}

// HandleParticipantJoined handles participant_joined events
func (s *CallEventService) HandleParticipantJoined(ctx context.Context, msg domain.Message) ([]byte, error) {
	event, err := s.parseRoomEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_kind", event.RawKind))
	ctx = logging.AppendCtx(ctx, slog.String("external_ref", event.ExternalRef))
	err = s.handleParticipantJoinedEvent(ctx, *event)
	if err != nil {
		metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to handle participant joined event", logging.ErrKey, err)
		return nil, err
	}

	metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "successfully processed participant joined event")
	return nil, nil // No response needed for webhook events
}

// HandleTrackPublished handles track_published events
func (s *CallEventService) HandleTrackPublished(ctx context.Context, msg domain.Message) ([]byte, error) {
	event, err := s.parseRoomEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_kind", event.RawKind))
	ctx = logging.AppendCtx(ctx, slog.String("external_ref", event.ExternalRef))
	err = s.handleTrackPublishedEvent(ctx, *event)
	if err != nil {
		metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to handle track published event", logging.ErrKey, err)
		return nil, err
	}

	metrics.RoomEventsProcessed.WithLabelValues(string(event.Kind), metrics.ResultOK).Inc()
	slog.InfoContext(ctx, "successfully processed track published event")
	return nil, nil // No response needed for webhook events
}

// handleRoomStartedEvent processes room_started events.
//
// The upsert is additive-safe: on duplicate delivery only fields that are
// still unset get filled in. A start time already recorded is never changed,
// and an end time recorded by an earlier room_finished event is never reset.
func (s *CallEventService) handleRoomStartedEvent(ctx context.Context, event models.RoomEventMessage) error {
	if event.ExternalRef == "" {
		slog.WarnContext(ctx, "room started event without a session reference, skipping")
		return nil
	}

	call, revision, err := s.callRepository.GetByExternalRefWithRevision(ctx, event.OrgID, event.ExternalRef)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return fmt.Errorf("failed to look up call by external ref: %w", err)
		}
		err = s.createStartedCall(ctx, event)
		if err == nil || domain.GetErrorType(err) != domain.ErrorTypeConflict {
			return err
		}
		// Lost the create race against a concurrent delivery. The winner's
		// record is authoritative, but it may be a bare room_finished record
		// missing the start time, so fold this event into it.
		slog.DebugContext(ctx, "call already created by concurrent delivery, folding start time into it")
		call, revision, err = s.callRepository.GetByExternalRefWithRevision(ctx, event.OrgID, event.ExternalRef)
		if err != nil {
			return fmt.Errorf("failed to reload call after create conflict: %w", err)
		}
	}

	changed := false
	if call.StartedAt.IsZero() {
		call.StartedAt = event.EventAt
		changed = true
	}
	if call.Status == "" {
		call.Status = models.CallStatusStarted
		changed = true
	}

	if !changed {
		slog.DebugContext(ctx, "duplicate room started event, call already up to date",
			"call_uid", call.UID,
		)
		return nil
	}

	call.UpdatedAt = time.Now().UTC()
	if err := s.callRepository.Update(ctx, call, revision); err != nil {
		return fmt.Errorf("failed to update call on room started: %w", err)
	}

	slog.InfoContext(ctx, "recorded start time on existing call", "call_uid", call.UID)
	return nil
}

// createStartedCall creates the initial call record for a session.
func (s *CallEventService) createStartedCall(ctx context.Context, event models.RoomEventMessage) error {
	now := time.Now().UTC()
	call := &models.Call{
		UID:         uuid.New().String(),
		OrgID:       event.OrgID,
		ProjectSlug: event.ProjectSlug,
		ExternalRef: event.ExternalRef,
		Status:      models.CallStatusStarted,
		StartedAt:   event.EventAt,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.callRepository.Create(ctx, call)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return err
		}
		return fmt.Errorf("failed to create call: %w", err)
	}

	slog.InfoContext(ctx, "created call record", "call_uid", call.UID)
	return nil
}

// handleParticipantJoinedEvent processes participant_joined events. Caller
// info lives in the participant metadata JSON; missing or malformed metadata
// makes the event a no-op, as does the call not existing yet.
func (s *CallEventService) handleParticipantJoinedEvent(ctx context.Context, event models.RoomEventMessage) error {
	payload, err := event.ToParticipantJoinedPayload()
	if err != nil {
		slog.WarnContext(ctx, "failed to parse participant joined payload, skipping", logging.ErrKey, err)
		return nil
	}

	metadata := models.ParseParticipantMetadata(payload.Participant.Metadata)
	if metadata == nil {
		slog.DebugContext(ctx, "participant event without usable metadata, skipping")
		return nil
	}

	callerName := metadata.ResolveCallerName()
	callerPhone := metadata.ResolveCallerPhone()
	if callerName == "" && callerPhone == "" {
		slog.DebugContext(ctx, "participant metadata carries no caller info, skipping")
		return nil
	}

	call, revision, err := s.callRepository.GetByExternalRefWithRevision(ctx, event.OrgID, event.ExternalRef)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			slog.DebugContext(ctx, "participant event for unknown call, skipping")
			return nil
		}
		return fmt.Errorf("failed to look up call by external ref: %w", err)
	}

	changed := false
	if callerName != "" && call.CallerName != callerName {
		call.CallerName = callerName
		changed = true
	}
	if callerPhone != "" && call.CallerPhone != callerPhone {
		call.CallerPhone = callerPhone
		changed = true
	}

	if !changed {
		slog.DebugContext(ctx, "duplicate participant event, caller info already recorded",
			"call_uid", call.UID,
		)
		return nil
	}

	call.UpdatedAt = time.Now().UTC()
	if err := s.callRepository.Update(ctx, call, revision); err != nil {
		return fmt.Errorf("failed to update caller info: %w", err)
	}

	slog.InfoContext(ctx, "recorded caller info on call", "call_uid", call.UID)
	return nil
}

// handleTrackPublishedEvent processes track_published events. Only DATA
// tracks carrying transcript text are acted on; everything else is ignored.
// Fragments for sessions without a call record are dropped, since there is
// nothing to attach them to.
func (s *CallEventService) handleTrackPublishedEvent(ctx context.Context, event models.RoomEventMessage) error {
	payload, err := event.ToTrackPublishedPayload()
	if err != nil {
		slog.WarnContext(ctx, "failed to parse track published payload, skipping", logging.ErrKey, err)
		return nil
	}

	if !payload.Track.IsTranscriptTrack() {
		slog.DebugContext(ctx, "non-transcript track published, skipping",
			"track_type", payload.Track.Type,
			"track_name", payload.Track.Name,
		)
		return nil
	}

	if strings.TrimSpace(payload.Data.Text) == "" {
		slog.DebugContext(ctx, "transcript track without text, skipping")
		return nil
	}

	call, err := s.callRepository.GetByExternalRef(ctx, event.OrgID, event.ExternalRef)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "dropping transcript fragment, no call record for session")
			return nil
		}
		return fmt.Errorf("failed to look up call by external ref: %w", err)
	}

	return s.appendTranscriptFragment(ctx, call.UID, payload.Data, event.EventAt)
}

// appendTranscriptFragment assigns the next sequence number and persists the
// fragment. The read-then-increment has a race window when fragments for the
// same call arrive concurrently: two handlers can read the same max and
// collide on the create. The losing create fails on the existing key and the
// event errors out, relying on redelivery rather than a per-call lock.
func (s *CallEventService) appendTranscriptFragment(ctx context.Context, callUID string, data models.TranscriptDataPayload, eventAt time.Time) error {
	maxSeq, err := s.transcriptRepository.MaxSequence(ctx, callUID)
	if err != nil {
		return fmt.Errorf("failed to read max transcript sequence: %w", err)
	}

	fragment := &models.TranscriptFragment{
		CallUID:   callUID,
		Seq:       maxSeq + 1,
		Speaker:   models.NormalizeSpeaker(data.Speaker),
		Text:      data.Text,
		StartedAt: eventAt,
	}

	if err := s.transcriptRepository.Create(ctx, fragment); err != nil {
		return fmt.Errorf("failed to persist transcript fragment: %w", err)
	}

	metrics.TranscriptFragmentsAppended.Inc()
	slog.InfoContext(ctx, "appended transcript fragment",
		"call_uid", callUID,
		"seq", fragment.Seq,
		"speaker", fragment.Speaker,
	)
	return nil
}

// handleRoomFinishedEvent processes room_finished events.
//
// The happy path sets the end time once, runs tag generation synchronously
// over the ordered transcript, and publishes the new-call notification.
// When room_finished lands before room_started (a legitimate race under
// at-least-once delivery) a bare record carrying only the end time is
// created so the later room_started can fill in the rest; enrichment is
// skipped on that degraded path.
func (s *CallEventService) handleRoomFinishedEvent(ctx context.Context, event models.RoomEventMessage) error {
	if event.ExternalRef == "" {
		slog.WarnContext(ctx, "room finished event without a session reference, skipping")
		return nil
	}

	call, revision, err := s.callRepository.GetByExternalRefWithRevision(ctx, event.OrgID, event.ExternalRef)
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return fmt.Errorf("failed to look up call by external ref: %w", err)
		}
		err = s.createFinishedCall(ctx, event)
		if err == nil || domain.GetErrorType(err) != domain.ErrorTypeConflict {
			return err
		}
		// Lost the create race against a concurrent room_started delivery.
		// The end time must not be dropped: reload the winner's record and
		// complete it.
		slog.DebugContext(ctx, "call already created by concurrent delivery, folding end time into it")
		call, revision, err = s.callRepository.GetByExternalRefWithRevision(ctx, event.OrgID, event.ExternalRef)
		if err != nil {
			return fmt.Errorf("failed to reload call after create conflict: %w", err)
		}
	}

	if call.Finished() {
		// End time is set exactly once; a duplicate finished event must not
		// move it or re-trigger enrichment.
		slog.DebugContext(ctx, "duplicate room finished event, call already completed",
			"call_uid", call.UID,
		)
		return nil
	}

	call.EndedAt = utils.TimePtr(event.EventAt)
	call.Status = models.CallStatusCompleted

	s.enrichFinishedCall(ctx, call)

	call.UpdatedAt = time.Now().UTC()
	if err := s.callRepository.Update(ctx, call, revision); err != nil {
		return fmt.Errorf("failed to complete call: %w", err)
	}

	slog.InfoContext(ctx, "completed call",
		"call_uid", call.UID,
		"duration", call.Duration().String(),
		"tags", call.Tags,
	)

	// Fire and forget: a notification failure must never surface to the
	// event sender or undo the completed state.
	notification := models.NewCallNotificationMessage{
		CallUID: call.UID,
		OrgID:   call.OrgID,
	}
	if err := s.messageBuilder.SendNewCallNotification(ctx, notification); err != nil {
		slog.ErrorContext(ctx, "failed to publish new call notification", logging.ErrKey, err)
	}

	return nil
}

// createFinishedCall is the degraded path for a room_finished event that
// arrived before room_started: a bare record carrying the end time, no
// enrichment.
func (s *CallEventService) createFinishedCall(ctx context.Context, event models.RoomEventMessage) error {
	slog.WarnContext(ctx, "room finished before room started, creating bare call record")

	now := time.Now().UTC()
	call := &models.Call{
		UID:         uuid.New().String(),
		OrgID:       event.OrgID,
		ProjectSlug: event.ProjectSlug,
		ExternalRef: event.ExternalRef,
		Status:      models.CallStatusCompleted,
		EndedAt:     utils.TimePtr(event.EventAt),
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.callRepository.Create(ctx, call)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return err
		}
		return fmt.Errorf("failed to create bare call record: %w", err)
	}

	return nil
}

// enrichFinishedCall runs synchronous tag generation over the ordered
// transcript and folds the result into the call. Failures leave the tags
// empty; they never block the end-time transition.
func (s *CallEventService) enrichFinishedCall(ctx context.Context, call *models.Call) {
	fragments, err := s.transcriptRepository.ListByCall(ctx, call.UID)
	if err != nil {
		metrics.TagGenerations.WithLabelValues(metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "failed to load transcript for tag generation", logging.ErrKey, err)
		return
	}

	result, err := s.transcriptTagger.GenerateTags(ctx, call, fragments)
	if err != nil {
		metrics.TagGenerations.WithLabelValues(metrics.ResultError).Inc()
		slog.ErrorContext(ctx, "tag generation failed, completing call without tags", logging.ErrKey, err)
		return
	}

	call.MergeTags(result.Tags)
	if result.Summary != "" {
		call.Summary = result.Summary
	}
	if result.Sentiment != "" {
		call.Sentiment = result.Sentiment
	}

	metrics.TagGenerations.WithLabelValues(metrics.ResultOK).Inc()
}
