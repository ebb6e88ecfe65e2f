// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsMessage wraps a NATS message to implement the domain.Message interface.
type NatsMessage struct {
	msg *nats.Msg
}

// NewNatsMessage creates a new NatsMessage wrapper.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{msg: msg}
}

// Subject returns the subject the message arrived on.
func (m *NatsMessage) Subject() string {
	return m.msg.Subject
}

// Data returns the message payload.
func (m *NatsMessage) Data() []byte {
	return m.msg.Data
}

// Respond replies to the message when a reply subject is set.
func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

// HasReply reports whether the sender expects a reply.
func (m *NatsMessage) HasReply() bool {
	return m.msg.Reply != ""
}

// JetStreamMessage wraps a JetStream message to implement the domain.Message
// interface. JetStream deliveries are one-way: acknowledgment happens at the
// consumer, not through a reply subject.
type JetStreamMessage struct {
	msg jetstream.Msg
}

// NewJetStreamMessage creates a new JetStreamMessage wrapper.
func NewJetStreamMessage(msg jetstream.Msg) *JetStreamMessage {
	return &JetStreamMessage{msg: msg}
}

// Subject returns the subject the message arrived on.
func (m *JetStreamMessage) Subject() string {
	return m.msg.Subject()
}

// Data returns the message payload.
func (m *JetStreamMessage) Data() []byte {
	return m.msg.Data()
}

// Respond is a no-op: JetStream deliveries carry no reply subject.
func (m *JetStreamMessage) Respond(_ []byte) error {
	return nil
}

// HasReply reports whether the sender expects a reply; always false.
func (m *JetStreamMessage) HasReply() bool {
	return false
}
