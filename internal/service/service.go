// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package service

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// DashboardBaseURL is the base URL of the dashboard app, used to build
	// links embedded in notification emails.
	DashboardBaseURL string
	// InviteBaseURL is the base URL for invitation acceptance links.
	InviteBaseURL string
}
