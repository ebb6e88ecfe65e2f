// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"slices"
	"time"
)

// CallStatus is the lifecycle state of a call record.
type CallStatus string

const (
	// CallStatusStarted means the session is live: a room_started event has
	// been folded in but no room_finished yet.
	CallStatusStarted CallStatus = "started"

	// CallStatusCompleted means a room_finished event has been folded in.
	CallStatusCompleted CallStatus = "completed"
)

// Call is the record that webhook room events fold into. One call exists per
// (org, external ref) pair regardless of how many times events for that
// session are delivered.
type Call struct {
	UID         string     `json:"uid"`
	OrgID       string     `json:"org_id"`
	ProjectSlug string     `json:"project_slug"`
	ExternalRef string     `json:"external_ref"`
	Status      CallStatus `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	CallerName  string     `json:"caller_name,omitempty"`
	CallerPhone string     `json:"caller_phone,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	Sentiment   string     `json:"sentiment,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Finished reports whether the call has an end time recorded.
func (c *Call) Finished() bool {
	return c.EndedAt != nil
}

// Duration returns the call duration derived from start and end times.
// It is never stored; a call without an end time has zero duration.
func (c *Call) Duration() time.Duration {
	if c.EndedAt == nil || c.StartedAt.IsZero() {
		return 0
	}
	d := c.EndedAt.Sub(c.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// MergeTags appends the given tags to the call, dropping duplicates and
// empty strings while preserving the order of first appearance.
func (c *Call) MergeTags(tags []string) {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if slices.Contains(c.Tags, tag) {
			continue
		}
		c.Tags = append(c.Tags, tag)
	}
}
