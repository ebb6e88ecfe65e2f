// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// TranscriptSpeaker identifies who produced a transcript fragment.
type TranscriptSpeaker string

const (
	TranscriptSpeakerAgent  TranscriptSpeaker = "agent"
	TranscriptSpeakerCaller TranscriptSpeaker = "caller"
)

// NormalizeSpeaker maps a loose speaker label from an event payload to one
// of the two known speakers. Anything unrecognized is attributed to the
// caller, matching how agents label their own fragments explicitly.
func NormalizeSpeaker(raw string) TranscriptSpeaker {
	if raw == string(TranscriptSpeakerAgent) {
		return TranscriptSpeakerAgent
	}
	return TranscriptSpeakerCaller
}

// TranscriptFragment is one ordered utterance of a call transcript.
// Sequence numbers start at 1 and are assigned in arrival order; the
// fragment timestamp is retained so readers can re-sort by speech time
// if they prefer.
type TranscriptFragment struct {
	CallUID   string            `json:"call_uid"`
	Seq       int               `json:"seq"`
	Speaker   TranscriptSpeaker `json:"speaker"`
	Text      string            `json:"text"`
	StartedAt time.Time         `json:"started_at"`
}
