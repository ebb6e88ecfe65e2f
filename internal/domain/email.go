// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendNewCallNotification(ctx context.Context, notification EmailNewCallNotification) error
	SendEmployeeInvitation(ctx context.Context, invitation EmailEmployeeInvitation) error
	SendTaskAssignment(ctx context.Context, assignment EmailTaskAssignment) error
}

// EmailNewCallNotification contains the data needed to notify a member
// about a completed call.
type EmailNewCallNotification struct {
	RecipientEmail string
	RecipientName  string
	CallerName     string
	CallerPhone    string
	Duration       time.Duration
	Summary        string
	Tags           []string
	DashboardURL   string
}

// EmailEmployeeInvitation contains the data needed to send an org
// membership invitation email.
type EmailEmployeeInvitation struct {
	RecipientEmail   string
	RecipientName    string
	OrganizationName string
	InvitedBy        string
	InviteURL        string
	ExpiresAt        time.Time
}

// EmailTaskAssignment contains the data needed to send a task assignment
// email.
type EmailTaskAssignment struct {
	RecipientEmail string
	RecipientName  string
	TaskTitle      string
	DueDate        string
	DashboardURL   string
}
