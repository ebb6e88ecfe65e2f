// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package domain

// WebhookValidator verifies that a webhook delivery was produced by the
// holder of the shared signing secret and is not a stale replay.
type WebhookValidator interface {
	ValidateSignature(body []byte, authHeader string) error
}
