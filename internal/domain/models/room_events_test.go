// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoomEvent_KnownKinds(t *testing.T) {
	receivedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		event    string
		wantKind RoomEventKind
	}{
		{
			name:     "room started",
			event:    "room_started",
			wantKind: RoomEventKindRoomStarted,
		},
		{
			name:     "room finished",
			event:    "room_finished",
			wantKind: RoomEventKindRoomFinished,
		},
		{
			name:     "participant joined",
			event:    "participant_joined",
			wantKind: RoomEventKindParticipantJoined,
		},
		{
			name:     "track published",
			event:    "track_published",
			wantKind: RoomEventKindTrackPublished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := []byte(`{"event":"` + tt.event + `","room":{"sid":"RM_abc123","name":"support-call"}}`)

			msg, err := NormalizeRoomEvent(body, receivedAt)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, msg.Kind)
			assert.Equal(t, tt.event, msg.RawKind)
			assert.Equal(t, "RM_abc123", msg.ExternalRef)
		})
	}
}

func TestNormalizeRoomEvent_UnknownKind(t *testing.T) {
	body := []byte(`{"event":"egress_ended","room":{"sid":"RM_abc123"}}`)

	msg, err := NormalizeRoomEvent(body, time.Now())
	require.NoError(t, err)
	assert.Equal(t, RoomEventKindUnknown, msg.Kind)
	assert.Equal(t, "egress_ended", msg.RawKind)
}

func TestNormalizeRoomEvent_MissingEvent(t *testing.T) {
	_, err := NormalizeRoomEvent([]byte(`{"room":{"sid":"RM_abc123"}}`), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing event field")
}

func TestNormalizeRoomEvent_InvalidJSON(t *testing.T) {
	_, err := NormalizeRoomEvent([]byte(`not json`), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid event body")
}

func TestNormalizeRoomEvent_EventTimestamp(t *testing.T) {
	receivedAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("uses createdAt when present", func(t *testing.T) {
		body := []byte(`{"event":"room_started","createdAt":1767225600,"room":{"sid":"RM_abc"}}`)

		msg, err := NormalizeRoomEvent(body, receivedAt)
		require.NoError(t, err)
		assert.Equal(t, time.Unix(1767225600, 0).UTC(), msg.EventAt)
	})

	t.Run("falls back to received time", func(t *testing.T) {
		body := []byte(`{"event":"room_started","room":{"sid":"RM_abc"}}`)

		msg, err := NormalizeRoomEvent(body, receivedAt)
		require.NoError(t, err)
		assert.Equal(t, receivedAt, msg.EventAt)
	})
}

func TestNormalizeRoomEvent_ExternalRef(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "prefers room sid",
			body: `{"event":"room_started","room":{"sid":"RM_abc","name":"support-call"}}`,
			want: "RM_abc",
		},
		{
			name: "falls back to room name",
			body: `{"event":"room_started","room":{"name":"support-call"}}`,
			want: "support-call",
		},
		{
			name: "empty when no room object",
			body: `{"event":"room_started"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NormalizeRoomEvent([]byte(tt.body), time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg.ExternalRef)
		})
	}
}

func TestRoomEventSubject(t *testing.T) {
	assert.Equal(t, RoomStartedSubject, RoomEventSubject(RoomEventKindRoomStarted))
	assert.Equal(t, RoomFinishedSubject, RoomEventSubject(RoomEventKindRoomFinished))
	assert.Equal(t, ParticipantJoinedSubject, RoomEventSubject(RoomEventKindParticipantJoined))
	assert.Equal(t, TrackPublishedSubject, RoomEventSubject(RoomEventKindTrackPublished))
	assert.Empty(t, RoomEventSubject(RoomEventKindUnknown))
}

func TestToParticipantJoinedPayload(t *testing.T) {
	body := []byte(`{
		"event": "participant_joined",
		"room": {"sid": "RM_abc", "name": "support-call"},
		"participant": {
			"identity": "caller-1",
			"name": "Ada",
			"metadata": "{\"caller_name\":\"Ada Lovelace\",\"caller_phone\":\"+4915112345678\"}"
		}
	}`)

	msg, err := NormalizeRoomEvent(body, time.Now())
	require.NoError(t, err)

	payload, err := msg.ToParticipantJoinedPayload()
	require.NoError(t, err)
	assert.Equal(t, "RM_abc", payload.Room.SID)
	assert.Equal(t, "caller-1", payload.Participant.Identity)

	metadata := ParseParticipantMetadata(payload.Participant.Metadata)
	require.NotNil(t, metadata)
	assert.Equal(t, "Ada Lovelace", metadata.ResolveCallerName())
	assert.Equal(t, "+4915112345678", metadata.ResolveCallerPhone())
}

func TestToTrackPublishedPayload(t *testing.T) {
	body := []byte(`{
		"event": "track_published",
		"room": {"sid": "RM_abc"},
		"track": {"sid": "TR_1", "type": "DATA", "name": "transcript-chunk"},
		"data": {"text": "hello, how can I help?", "speaker": "agent"}
	}`)

	msg, err := NormalizeRoomEvent(body, time.Now())
	require.NoError(t, err)

	payload, err := msg.ToTrackPublishedPayload()
	require.NoError(t, err)
	assert.True(t, payload.Track.IsTranscriptTrack())
	assert.Equal(t, "hello, how can I help?", payload.Data.Text)
	assert.Equal(t, "agent", payload.Data.Speaker)
}

func TestParseParticipantMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		wantNil  bool
	}{
		{
			name:     "empty metadata",
			metadata: "",
			wantNil:  true,
		},
		{
			name:     "malformed metadata",
			metadata: "{not json",
			wantNil:  true,
		},
		{
			name:     "valid metadata",
			metadata: `{"caller_name":"Ada"}`,
			wantNil:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParticipantMetadata(tt.metadata)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				assert.NotNil(t, got)
			}
		})
	}
}

func TestParticipantMetadata_FieldFallbacks(t *testing.T) {
	metadata := &ParticipantMetadata{
		Name:  "Generic Name",
		Phone: "+4930123456",
	}
	assert.Equal(t, "Generic Name", metadata.ResolveCallerName())
	assert.Equal(t, "+4930123456", metadata.ResolveCallerPhone())

	metadata.CallerName = "Explicit Name"
	metadata.CallerPhone = "+4915100000000"
	assert.Equal(t, "Explicit Name", metadata.ResolveCallerName())
	assert.Equal(t, "+4915100000000", metadata.ResolveCallerPhone())
}

func TestTrackPayload_IsTranscriptTrack(t *testing.T) {
	tests := []struct {
		name  string
		track TrackPayload
		want  bool
	}{
		{
			name:  "data track named transcript",
			track: TrackPayload{Type: "DATA", Name: "transcript"},
			want:  true,
		},
		{
			name:  "data track with transcript in name",
			track: TrackPayload{Type: "DATA", Name: "live-transcript-chunk"},
			want:  true,
		},
		{
			name:  "audio track",
			track: TrackPayload{Type: "AUDIO", Name: "transcript"},
			want:  false,
		},
		{
			name:  "data track without transcript name",
			track: TrackPayload{Type: "DATA", Name: "telemetry"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.track.IsTranscriptTrack())
		})
	}
}
