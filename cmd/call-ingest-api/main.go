// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

// Package main is the call ingest service: it receives room event webhooks,
// folds them into call records via NATS message handlers, and dispatches
// post-call notifications.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/handlers"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/messaging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/infrastructure/webhook"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/service"
	"github.com/bytecrafter52-dot/callisi-ingest-service/pkg/utils"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	transcriptTagger := setupTagger(env)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Initialize the OpenTelemetry SDK; exporters are opt-in via OTEL_* env.
	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		return
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry SDK")
		}
	}()

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating JetStream context")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, js)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	serviceConfig := service.ServiceConfig{
		DashboardBaseURL: env.DashboardBaseURL,
		InviteBaseURL:    env.InviteBaseURL,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn, js)
	webhookValidator := webhook.NewLiveKitWebhookValidator(env.LiveKit.APIKey, env.LiveKit.APISecret)
	webhookService := service.NewWebhookIntakeService(
		webhookValidator,
		repos.Project,
		repos.Audit,
		messageBuilder,
	)
	callEventService := service.NewCallEventService(
		repos.Call,
		repos.Transcript,
		transcriptTagger,
		messageBuilder,
	)
	notificationService := service.NewNotificationService(
		repos.Member,
		repos.Call,
		emailService,
		serviceConfig,
	)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	roomEventHandler := handlers.NewRoomEventHandler(callEventService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	httpServer := setupHTTPServer(flags, webhookHandler, natsConn, &gracefulCloseWG)

	// Room events are consumed from JetStream with explicit acknowledgment,
	// so a failed fold is redelivered instead of lost.
	consumeCtx, err := setupRoomEventConsumer(ctx, js, roomEventHandler)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up room event consumer")
		return
	}

	// Notification dispatch stays on core NATS queue subscriptions.
	err = createNatsSubscriptions(ctx, natsConn, map[string]domain.MessageHandler{
		models.NewCallNotificationSubject: notificationHandler,
		models.EmployeeInviteSubject:      notificationHandler,
		models.TaskAssignedSubject:        notificationHandler,
	})
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, consumeCtx, &gracefulCloseWG, cancel)
}
