// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
)

// flags are the command line flags for the call ingest service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the call ingest service.
type environment struct {
	Port             string
	NatsURL          string
	DashboardBaseURL string
	InviteBaseURL    string
	LiveKit          livekitConfig
	SMTP             smtpConfig
	Tagger           taggerConfig
}

// livekitConfig holds the webhook verification credentials.
type livekitConfig struct {
	APIKey    string
	APISecret string
}

// smtpConfig holds the outbound email configuration. Email sending is
// disabled when Host is empty.
type smtpConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// taggerConfig holds the text analysis service configuration. Tagging is
// disabled when BaseURL or APIKey is empty.
type taggerConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// parseFlags parses command line flags for the call ingest service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the call ingest service
func parseEnv() environment {
	// Local development convenience; missing .env files are fine.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	dashboardBaseURL := os.Getenv("DASHBOARD_BASE_URL")
	if dashboardBaseURL == "" {
		dashboardBaseURL = "https://app.callisi.io"
	}

	inviteBaseURL := os.Getenv("INVITE_BASE_URL")
	if inviteBaseURL == "" {
		inviteBaseURL = dashboardBaseURL
	}

	return environment{
		Port:             port,
		NatsURL:          natsURL,
		DashboardBaseURL: dashboardBaseURL,
		InviteBaseURL:    inviteBaseURL,
		LiveKit:          parseLiveKitConfig(),
		SMTP:             parseSMTPConfig(),
		Tagger:           parseTaggerConfig(),
	}
}

// parseLiveKitConfig parses the webhook verification credentials from
// environment variables
func parseLiveKitConfig() livekitConfig {
	apiKey := os.Getenv("LIVEKIT_API_KEY")
	if apiKey == "" {
		slog.Error("LIVEKIT_API_KEY environment variable is required but not set")
		os.Exit(1)
	}

	apiSecret := os.Getenv("LIVEKIT_API_SECRET")
	if apiSecret == "" {
		slog.Error("LIVEKIT_API_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	return livekitConfig{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
}

// parseSMTPConfig parses outbound email configuration from environment variables
func parseSMTPConfig() smtpConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return smtpConfig{}
	}

	port := 587
	if portRaw := os.Getenv("SMTP_PORT"); portRaw != "" {
		parsed, err := strconv.Atoi(portRaw)
		if err != nil {
			slog.With(logging.ErrKey, err, "port", portRaw).Error("invalid SMTP_PORT provided, using default")
		} else {
			port = parsed
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "notifications@callisi.io"
	}

	return smtpConfig{
		Host:     host,
		Port:     port,
		From:     from,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
}

// parseTaggerConfig parses the text analysis service configuration from
// environment variables
func parseTaggerConfig() taggerConfig {
	return taggerConfig{
		BaseURL: os.Getenv("TAGGER_BASE_URL"),
		APIKey:  os.Getenv("TAGGER_API_KEY"),
		Model:   os.Getenv("TAGGER_MODEL"),
	}
}
