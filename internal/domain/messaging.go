// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// RoomEventSender publishes normalized room events for async processing.
type RoomEventSender interface {
	PublishRoomEvent(ctx context.Context, subject string, message models.RoomEventMessage) error
}

// NotificationSender publishes notification dispatch messages. The reducer
// publishes fire-and-forget; the notification handler consumes.
type NotificationSender interface {
	SendNewCallNotification(ctx context.Context, data models.NewCallNotificationMessage) error
	SendEmployeeInvite(ctx context.Context, data models.EmployeeInviteMessage) error
	SendTaskAssigned(ctx context.Context, data models.TaskAssignedMessage) error
}

// MessageBuilder is the main interface that composes all messaging capabilities.
type MessageBuilder interface {
	RoomEventSender
	NotificationSender
}
