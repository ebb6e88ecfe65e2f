// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/handlers"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/email"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/messaging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/store"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/tagger"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// natsQueueName is the queue group for the service's NATS subscriptions, so
// that horizontally scaled instances share the event stream instead of each
// processing every message.
const natsQueueName = "callisi-ingest-service"

// roomEventStreamName is the JetStream stream capturing room event subjects.
const roomEventStreamName = "CALLISI_ROOM_EVENTS"

// roomEventConsumerName is the durable consumer shared by service instances.
const roomEventConsumerName = "callisi-ingest-service"

// roomEventAckWait is how long JetStream waits for an acknowledgment before
// redelivering a room event.
const roomEventAckWait = 30 * time.Second

// setupNATS connects to the NATS server used both as message bus and as the
// JetStream KV datastore.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(25*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).DebugContext(ctx, "connected to NATS server")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).ErrorContext(ctx, "async NATS error")
			} else {
				slog.With(logging.ErrKey, err).ErrorContext(ctx, "async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
			gracefulCloseWG.Done()
			// Unblock the main goroutine when the connection drops for good.
			done <- syscall.SIGTERM
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// repositories bundles the KV-backed repositories for dependency injection.
type repositories struct {
	Call       *store.NatsCallRepository
	Transcript *store.NatsTranscriptRepository
	Project    *store.NatsProjectRepository
	Audit      *store.NatsAuditRepository
	Member     *store.NatsOrgMemberRepository
}

// getKeyValueStores creates (or binds to) the JetStream KV buckets and wraps
// them in the repositories.
func getKeyValueStores(ctx context.Context, js jetstream.JetStream) (*repositories, error) {
	buckets := map[string]jetstream.KeyValue{}
	for _, name := range []string{
		store.KVStoreNameCalls,
		store.KVStoreNameTranscripts,
		store.KVStoreNameProjects,
		store.KVStoreNameAuditEvents,
		store.KVStoreNameOrgMembers,
	} {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket: name,
		})
		if err != nil {
			return nil, err
		}
		buckets[name] = kv
	}

	return &repositories{
		Call:       store.NewNatsCallRepository(buckets[store.KVStoreNameCalls]),
		Transcript: store.NewNatsTranscriptRepository(buckets[store.KVStoreNameTranscripts]),
		Project:    store.NewNatsProjectRepository(buckets[store.KVStoreNameProjects]),
		Audit:      store.NewNatsAuditRepository(buckets[store.KVStoreNameAuditEvents]),
		Member:     store.NewNatsOrgMemberRepository(buckets[store.KVStoreNameOrgMembers]),
	}, nil
}

// setupEmailService returns the SMTP email service when configured, the
// no-op service otherwise.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTP.Host == "" {
		slog.Info("SMTP not configured, notification emails disabled")
		return email.NewNoOpService(), nil
	}

	return email.NewSMTPService(email.SMTPConfig{
		Host:     env.SMTP.Host,
		Port:     env.SMTP.Port,
		From:     env.SMTP.From,
		Username: env.SMTP.Username,
		Password: env.SMTP.Password,
	})
}

// setupTagger returns the HTTP transcript tagger when configured, the no-op
// tagger otherwise.
func setupTagger(env environment) domain.TranscriptTagger {
	if env.Tagger.BaseURL == "" || env.Tagger.APIKey == "" {
		slog.Info("tagger not configured, transcript analysis disabled")
		return tagger.NewNoOpTagger()
	}

	return tagger.NewHTTPTagger(tagger.Config{
		BaseURL: env.Tagger.BaseURL,
		APIKey:  env.Tagger.APIKey,
		Model:   env.Tagger.Model,
	})
}

// setupRoomEventConsumer binds the room event reducer to a durable JetStream
// consumer. Room events need at-least-once processing: a handler error naks
// the message so JetStream redelivers it, while malformed payloads are
// terminated since no redelivery can fix them. Notification dispatch stays on
// plain queue subscriptions; losing a best-effort email is acceptable, losing
// a call record is not.
func setupRoomEventConsumer(ctx context.Context, js jetstream.JetStream, handler *handlers.RoomEventHandler) (jetstream.ConsumeContext, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     roomEventStreamName,
		Subjects: []string{models.RoomEventsSubjectWildcard},
	})
	if err != nil {
		slog.With(logging.ErrKey, err).ErrorContext(ctx, "error creating room event stream")
		return nil, err
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:   roomEventConsumerName,
		AckPolicy: jetstream.AckExplicitPolicy,
		AckWait:   roomEventAckWait,
	})
	if err != nil {
		slog.With(logging.ErrKey, err).ErrorContext(ctx, "error creating room event consumer")
		return nil, err
	}

	consumeCtx, err := consumer.Consume(func(jsMsg jetstream.Msg) {
		err := handler.HandleRoomEvent(ctx, messaging.NewJetStreamMessage(jsMsg))
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeValidation {
				if termErr := jsMsg.Term(); termErr != nil {
					slog.With(logging.ErrKey, termErr, "subject", jsMsg.Subject()).ErrorContext(ctx, "error terminating room event")
				}
				return
			}
			if nakErr := jsMsg.Nak(); nakErr != nil {
				slog.With(logging.ErrKey, nakErr, "subject", jsMsg.Subject()).ErrorContext(ctx, "error nacking room event")
			}
			return
		}
		if ackErr := jsMsg.Ack(); ackErr != nil {
			slog.With(logging.ErrKey, ackErr, "subject", jsMsg.Subject()).ErrorContext(ctx, "error acking room event")
		}
	})
	if err != nil {
		slog.With(logging.ErrKey, err).ErrorContext(ctx, "error starting room event consumer")
		return nil, err
	}

	slog.With("stream", roomEventStreamName, "consumer", roomEventConsumerName).DebugContext(ctx, "created room event consumer")
	return consumeCtx, nil
}

// createNatsSubscriptions subscribes the message handlers to their subjects.
func createNatsSubscriptions(ctx context.Context, natsConn *nats.Conn, subscriptions map[string]domain.MessageHandler) error {
	for subject, handler := range subscriptions {
		h := handler
		_, err := natsConn.QueueSubscribe(subject, natsQueueName, func(msg *nats.Msg) {
			h.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			slog.With(logging.ErrKey, err, "subject", subject).ErrorContext(ctx, "error creating NATS subscription")
			return err
		}
		slog.With("subject", subject, "queue", natsQueueName).DebugContext(ctx, "created NATS subscription")
	}

	return nil
}

// gracefulShutdown drains the HTTP server, the room event consumer and the
// NATS connection, then waits for the cleanup goroutines to finish.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, consumeCtx jetstream.ConsumeContext, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if consumeCtx != nil {
		consumeCtx.Drain()
	}

	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	gracefulCloseWG.Wait()
	slog.Info("shutdown complete")
}
