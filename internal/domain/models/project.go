// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// Project is a tenant's LiveKit project registration. The webhook URL
// carries the project slug; events for slugs that don't resolve to an
// active project are acknowledged without processing.
type Project struct {
	UID       string    `json:"uid"`
	Slug      string    `json:"slug"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
