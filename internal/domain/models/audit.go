// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// RawEventRecord is the immutable audit trail entry written for every
// verified webhook delivery, including kinds the reducer doesn't act on.
// Records are encoded with msgpack in the audit bucket; the JSON tags
// exist for debug endpoints that dump records.
type RawEventRecord struct {
	UID         string         `json:"uid" msgpack:"uid"`
	OrgID       string         `json:"org_id" msgpack:"org_id"`
	ProjectSlug string         `json:"project_slug" msgpack:"project_slug"`
	Kind        string         `json:"kind" msgpack:"kind"`
	ReceivedAt  time.Time      `json:"received_at" msgpack:"received_at"`
	Payload     map[string]any `json:"payload" msgpack:"payload"`
}
