// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

// Package messaging contains the NATS message builder used to publish
// normalized room events and notification dispatch messages.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// IJetStreamPublisher is the JetStream publish interface needed for the
// [MessageBuilder]. Room events go through JetStream so the publish is only
// acknowledged once the stream has persisted the message.
type IJetStreamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn  INatsConn
	JetStream IJetStreamPublisher
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn, js IJetStreamPublisher) *MessageBuilder {
	return &MessageBuilder{
		NatsConn:  natsConn,
		JetStream: js,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// PublishRoomEvent publishes a normalized room event to JetStream for async
// processing. The publish only succeeds once the stream has persisted the
// message, so a failure here surfaces to the webhook sender for redelivery.
func (m *MessageBuilder) PublishRoomEvent(ctx context.Context, subject string, message models.RoomEventMessage) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling room event into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	ack, err := m.JetStream.Publish(ctx, subject, messageBytes)
	if err != nil {
		slog.ErrorContext(ctx, "error publishing room event to JetStream", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "published room event to JetStream",
		"subject", subject,
		"event_kind", message.Kind,
		"external_ref", message.ExternalRef,
		"stream_seq", ack.Sequence,
	)
	return nil
}

// SendNewCallNotification publishes a new-call notification dispatch message.
func (m *MessageBuilder) SendNewCallNotification(ctx context.Context, data models.NewCallNotificationMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.NewCallNotificationSubject, dataBytes)
}

// SendEmployeeInvite publishes an employee invitation dispatch message.
func (m *MessageBuilder) SendEmployeeInvite(ctx context.Context, data models.EmployeeInviteMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.EmployeeInviteSubject, dataBytes)
}

// SendTaskAssigned publishes a task assignment dispatch message.
func (m *MessageBuilder) SendTaskAssigned(ctx context.Context, data models.TaskAssignedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.TaskAssignedSubject, dataBytes)
}
