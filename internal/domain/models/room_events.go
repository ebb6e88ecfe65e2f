// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/bytecrafter52-dot/callisi-ingest-service/pkg/utils"
)

// RoomEventKind is the normalized kind of a LiveKit room webhook event.
type RoomEventKind string

const (
	RoomEventKindRoomStarted       RoomEventKind = "room_started"
	RoomEventKindRoomFinished      RoomEventKind = "room_finished"
	RoomEventKindParticipantJoined RoomEventKind = "participant_joined"
	RoomEventKindTrackPublished    RoomEventKind = "track_published"

	// RoomEventKindUnknown marks kinds the reducer doesn't act on.
	// They are still audited.
	RoomEventKindUnknown RoomEventKind = "unknown"
)

// knownRoomEventKinds are the kinds that have reducer handlers.
var knownRoomEventKinds = map[string]RoomEventKind{
	"room_started":       RoomEventKindRoomStarted,
	"room_finished":      RoomEventKindRoomFinished,
	"participant_joined": RoomEventKindParticipantJoined,
	"track_published":    RoomEventKindTrackPublished,
}

// RoomEventMessage is the normalized room event published to NATS for async
// processing. Kind is the discriminant; Payload keeps the original event
// fields and is converted to a typed payload by the handler for the kind.
type RoomEventMessage struct {
	Kind        RoomEventKind  `json:"kind"`
	RawKind     string         `json:"raw_kind"`
	ProjectSlug string         `json:"project_slug"`
	OrgID       string         `json:"org_id"`
	ExternalRef string         `json:"external_ref"`
	EventAt     time.Time      `json:"event_at"`
	Payload     map[string]any `json:"payload"`
}

// roomEventEnvelope is the loose JSON shape of a LiveKit webhook delivery.
// Only the fields needed for normalization are declared; everything else
// stays in the payload map.
type roomEventEnvelope struct {
	Event     string         `json:"event"`
	CreatedAt int64          `json:"createdAt"`
	Room      map[string]any `json:"room"`
}

// NormalizeRoomEvent decodes a raw webhook body into a RoomEventMessage.
// The event timestamp defaults to receivedAt when the envelope carries none,
// so a missing createdAt never blocks ingestion. The external ref prefers
// the room SID and falls back to the room name.
func NormalizeRoomEvent(rawBody []byte, receivedAt time.Time) (*RoomEventMessage, error) {
	var envelope roomEventEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, fmt.Errorf("invalid event body: %w", err)
	}
	if envelope.Event == "" {
		return nil, fmt.Errorf("missing event field")
	}

	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("invalid event body: %w", err)
	}

	kind, ok := knownRoomEventKinds[envelope.Event]
	if !ok {
		kind = RoomEventKindUnknown
	}

	eventAt := receivedAt
	if envelope.CreatedAt > 0 {
		eventAt = time.Unix(envelope.CreatedAt, 0).UTC()
	}

	return &RoomEventMessage{
		Kind:        kind,
		RawKind:     envelope.Event,
		ExternalRef: externalRefFromRoom(envelope.Room),
		EventAt:     eventAt,
		Payload:     payload,
	}, nil
}

// externalRefFromRoom picks the session reference from the room object:
// the SID when present, otherwise the room name.
func externalRefFromRoom(room map[string]any) string {
	if room == nil {
		return ""
	}
	if sid, ok := room["sid"].(string); ok && sid != "" {
		return sid
	}
	if name, ok := room["name"].(string); ok {
		return name
	}
	return ""
}

// RoomPayload carries the room fields of an event payload.
type RoomPayload struct {
	SID  string `json:"sid"`
	Name string `json:"name"`
}

// ParticipantPayload carries the participant fields of a
// participant_joined event payload.
type ParticipantPayload struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Metadata string `json:"metadata"`
}

// ParticipantMetadata is the caller info embedded as a JSON string in the
// participant metadata field.
type ParticipantMetadata struct {
	CallerName  string `json:"caller_name"`
	CallerPhone string `json:"caller_phone"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
}

// ResolveCallerName returns the caller name, preferring the explicit
// caller_name field over the generic name field.
func (m *ParticipantMetadata) ResolveCallerName() string {
	return utils.CoalesceString(m.CallerName, m.Name)
}

// ResolveCallerPhone returns the caller phone, preferring the explicit
// caller_phone field over the generic phone field.
func (m *ParticipantMetadata) ResolveCallerPhone() string {
	return utils.CoalesceString(m.CallerPhone, m.Phone)
}

// TrackPayload carries the track fields of a track_published event payload.
type TrackPayload struct {
	SID  string `json:"sid"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// IsTranscriptTrack reports whether the track carries transcript data:
// a DATA track whose name contains "transcript".
func (t *TrackPayload) IsTranscriptTrack() bool {
	return t.Type == "DATA" && strings.Contains(t.Name, "transcript")
}

// TranscriptDataPayload carries the transcript fields of a track_published
// event payload's data object.
type TranscriptDataPayload struct {
	Text    string `json:"text"`
	Speaker string `json:"speaker"`
}

// ParticipantJoinedPayload carries the fields of a participant_joined event.
type ParticipantJoinedPayload struct {
	Room        RoomPayload        `json:"room"`
	Participant ParticipantPayload `json:"participant"`
}

// TrackPublishedPayload carries the fields of a track_published event.
type TrackPublishedPayload struct {
	Room  RoomPayload           `json:"room"`
	Track TrackPayload          `json:"track"`
	Data  TranscriptDataPayload `json:"data"`
}

// decodePayload decodes the loose payload map into a typed payload struct
// keyed by the json tags.
func (m *RoomEventMessage) decodePayload(out any) error {
	config := mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return fmt.Errorf("failed to create payload decoder: %w", err)
	}
	if err := decoder.Decode(m.Payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", m.Kind, err)
	}
	return nil
}

// ToParticipantJoinedPayload converts the payload map to a typed participant_joined payload.
func (m *RoomEventMessage) ToParticipantJoinedPayload() (*ParticipantJoinedPayload, error) {
	var payload ParticipantJoinedPayload
	if err := m.decodePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToTrackPublishedPayload converts the payload map to a typed track_published payload.
func (m *RoomEventMessage) ToTrackPublishedPayload() (*TrackPublishedPayload, error) {
	var payload TrackPublishedPayload
	if err := m.decodePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ParseParticipantMetadata parses the JSON metadata string attached to a
// participant. Malformed or empty metadata yields a nil result rather
// than an error so the reducer can treat it as a no-op.
func ParseParticipantMetadata(metadata string) *ParticipantMetadata {
	if metadata == "" {
		return nil
	}
	var parsed ParticipantMetadata
	if err := json.Unmarshal([]byte(metadata), &parsed); err != nil {
		return nil
	}
	return &parsed
}
