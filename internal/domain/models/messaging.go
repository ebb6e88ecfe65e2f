// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

// NATS subjects for normalized room events. One subject per event kind so
// that subscriptions can be scoped and monitored independently.
const (
	// RoomStartedSubject is the subject for room_started events.
	// The subject is of the form: callisi.webhook.room.started
	RoomStartedSubject = "callisi.webhook.room.started"

	// RoomFinishedSubject is the subject for room_finished events.
	// The subject is of the form: callisi.webhook.room.finished
	RoomFinishedSubject = "callisi.webhook.room.finished"

	// ParticipantJoinedSubject is the subject for participant_joined events.
	// The subject is of the form: callisi.webhook.room.participant_joined
	ParticipantJoinedSubject = "callisi.webhook.room.participant_joined"

	// TrackPublishedSubject is the subject for track_published events.
	// The subject is of the form: callisi.webhook.room.track_published
	TrackPublishedSubject = "callisi.webhook.room.track_published"

	// RoomEventsSubjectWildcard matches every room event subject. It is the
	// subject filter for the room event stream, which gives the reducer
	// at-least-once delivery with explicit acknowledgment.
	RoomEventsSubjectWildcard = "callisi.webhook.room.>"
)

// NATS subjects for notification dispatch. Notification sends are decoupled
// from event reduction: the reducer publishes and moves on, the notification
// handler consumes and emails.
const (
	// NewCallNotificationSubject is the subject for new-call notifications.
	// The subject is of the form: callisi.notification.new_call
	NewCallNotificationSubject = "callisi.notification.new_call"

	// EmployeeInviteSubject is the subject for employee invitation notifications.
	// The subject is of the form: callisi.notification.employee_invite
	EmployeeInviteSubject = "callisi.notification.employee_invite"

	// TaskAssignedSubject is the subject for task assignment notifications.
	// The subject is of the form: callisi.notification.task_assigned
	TaskAssignedSubject = "callisi.notification.task_assigned"
)

// RoomEventSubject maps a normalized event kind to its NATS subject.
// Unknown kinds have no subject; they are audited but not published.
func RoomEventSubject(kind RoomEventKind) string {
	subjects := map[RoomEventKind]string{
		RoomEventKindRoomStarted:       RoomStartedSubject,
		RoomEventKindRoomFinished:      RoomFinishedSubject,
		RoomEventKindParticipantJoined: ParticipantJoinedSubject,
		RoomEventKindTrackPublished:    TrackPublishedSubject,
	}
	return subjects[kind]
}

// NewCallNotificationMessage is the schema for the message published when a
// call completes and subscribed org members should be emailed about it.
type NewCallNotificationMessage struct {
	CallUID string `json:"call_uid"`
	OrgID   string `json:"org_id"`
}

// EmployeeInviteMessage is the schema for the message published when an org
// member should receive an invitation email.
type EmployeeInviteMessage struct {
	MemberUID string `json:"member_uid"`
	OrgID     string `json:"org_id"`
	InvitedBy string `json:"invited_by"`
}

// TaskAssignedMessage is the schema for the message published when a task is
// assigned to an org member.
type TaskAssignedMessage struct {
	MemberUID string `json:"member_uid"`
	OrgID     string `json:"org_id"`
	TaskTitle string `json:"task_title"`
	DueDate   string `json:"due_date,omitempty"`
}
