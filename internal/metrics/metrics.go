// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus instrumentation for the ingestion
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookEventsReceived counts webhook deliveries by event kind, before
	// any validation.
	WebhookEventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "webhook",
		Name:      "events_received_total",
		Help:      "Total webhook events received, by event kind.",
	}, []string{"kind"})

	// WebhookEventsRejected counts deliveries that failed signature
	// verification.
	WebhookEventsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "webhook",
		Name:      "events_rejected_total",
		Help:      "Total webhook events rejected due to invalid signatures.",
	})

	// WebhookEventsSkipped counts deliveries acknowledged without processing,
	// by reason (unknown_project, inactive_project, unknown_kind).
	WebhookEventsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "webhook",
		Name:      "events_skipped_total",
		Help:      "Total webhook events acknowledged but skipped, by reason.",
	}, []string{"reason"})

	// RoomEventsProcessed counts room events folded into call state, by kind
	// and result (ok, error).
	RoomEventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "ingest",
		Name:      "room_events_processed_total",
		Help:      "Total room events processed by the call event handlers.",
	}, []string{"kind", "result"})

	// TranscriptFragmentsAppended counts transcript fragments persisted.
	TranscriptFragmentsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "ingest",
		Name:      "transcript_fragments_appended_total",
		Help:      "Total transcript fragments appended to calls.",
	})

	// TagGenerations counts post-call tag generation attempts by result.
	TagGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "ingest",
		Name:      "tag_generations_total",
		Help:      "Total transcript tag generation attempts, by result.",
	}, []string{"result"})

	// NotificationEmailsSent counts notification emails by type and result.
	NotificationEmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callisi",
		Subsystem: "notification",
		Name:      "emails_sent_total",
		Help:      "Total notification emails attempted, by type and result.",
	}, []string{"type", "result"})
)

const (
	// ResultOK labels a successful outcome.
	ResultOK = "ok"
	// ResultError labels a failed outcome.
	ResultError = "error"
)
