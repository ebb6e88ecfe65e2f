// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// NotificationPreferences are per-member opt-out flags for email
// notifications. A nil flag means the member never expressed a
// preference, which counts as enabled.
type NotificationPreferences struct {
	EmailNewCall      *bool `json:"email_new_call,omitempty"`
	EmailTaskAssigned *bool `json:"email_task_assigned,omitempty"`
}

// OrgMember is a dashboard user belonging to an organization. Members
// receive post-call notification emails subject to their preferences,
// and may hold a pending invitation token before first sign-in.
type OrgMember struct {
	UID       string                  `json:"uid"`
	OrgID     string                  `json:"org_id"`
	Email     string                  `json:"email"`
	Name      string                  `json:"name"`
	Prefs     NotificationPreferences `json:"prefs"`
	CreatedAt time.Time               `json:"created_at"`

	// Invitation state, set when an admin invites the member by email.
	InvitationToken     string     `json:"invitation_token,omitempty"`
	InvitationSentAt    *time.Time `json:"invitation_sent_at,omitempty"`
	InvitationExpiresAt *time.Time `json:"invitation_expires_at,omitempty"`
}

// WantsNewCallEmail reports whether the member should receive new-call
// notification emails. Absent preference defaults to enabled.
func (m *OrgMember) WantsNewCallEmail() bool {
	return m.Prefs.EmailNewCall == nil || *m.Prefs.EmailNewCall
}

// WantsTaskAssignedEmail reports whether the member should receive
// task-assignment emails. Absent preference defaults to enabled.
func (m *OrgMember) WantsTaskAssignedEmail() bool {
	return m.Prefs.EmailTaskAssigned == nil || *m.Prefs.EmailTaskAssigned
}
