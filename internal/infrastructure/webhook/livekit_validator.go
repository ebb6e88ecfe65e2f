// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// replayWindow is how old a signed request may be before it is rejected.
const replayWindow = 5 * time.Minute

// LiveKitWebhookValidator handles validation of LiveKit webhook signatures.
// Deliveries carry an Authorization header of the form
// "key=<api key>,ts=<unix seconds>,sig=<hex digest>" where the digest is
// HMAC-SHA256 over "v1:<ts>:<raw body>" keyed with the shared API secret.
type LiveKitWebhookValidator struct {
	apiKey    string
	apiSecret string
}

// NewLiveKitWebhookValidator creates a new LiveKit webhook validator
func NewLiveKitWebhookValidator(apiKey, apiSecret string) *LiveKitWebhookValidator {
	return &LiveKitWebhookValidator{
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

// ValidateSignature validates the LiveKit webhook signature over the exact
// raw body bytes as received
func (v *LiveKitWebhookValidator) ValidateSignature(body []byte, authHeader string) error {
	if v.apiKey == "" || v.apiSecret == "" {
		return fmt.Errorf("webhook credentials not configured")
	}

	if authHeader == "" {
		return fmt.Errorf("missing authorization header")
	}

	key, timestamp, signature, err := parseAuthHeader(authHeader)
	if err != nil {
		return err
	}

	if key != v.apiKey {
		return fmt.Errorf("unknown api key")
	}

	// Parse timestamp for replay protection
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %w", err)
	}

	// Check if request is too old
	now := time.Now().Unix()
	if now-ts > int64(replayWindow.Seconds()) {
		return fmt.Errorf("request timestamp too old")
	}

	// Create the message to sign: v1:timestamp:body
	message := fmt.Sprintf("v1:%s:%s", timestamp, string(body))

	// Calculate HMAC-SHA256
	h := hmac.New(sha256.New, []byte(v.apiSecret))
	h.Write([]byte(message))
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	// Compare signatures using constant-time comparison
	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return fmt.Errorf("invalid webhook signature")
	}

	return nil
}

// parseAuthHeader splits the "key=...,ts=...,sig=..." header fields.
func parseAuthHeader(header string) (key, timestamp, signature string, err error) {
	for _, part := range strings.Split(header, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return "", "", "", fmt.Errorf("malformed authorization header")
		}
		switch name {
		case "key":
			key = value
		case "ts":
			timestamp = value
		case "sig":
			signature = value
		}
	}

	if key == "" {
		return "", "", "", fmt.Errorf("missing api key in authorization header")
	}
	if timestamp == "" {
		return "", "", "", fmt.Errorf("missing timestamp in authorization header")
	}
	if signature == "" {
		return "", "", "", fmt.Errorf("missing signature in authorization header")
	}

	return key, timestamp, signature, nil
}
