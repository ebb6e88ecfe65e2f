// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	assert.NotNil(t, templates.NewCall.HTML)
	assert.NotNil(t, templates.NewCall.Text)
	assert.NotNil(t, templates.EmployeeInvite.HTML)
	assert.NotNil(t, templates.EmployeeInvite.Text)
	assert.NotNil(t, templates.TaskAssigned.HTML)
	assert.NotNil(t, templates.TaskAssigned.Text)
}

func TestRenderNewCallTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	notification := domain.EmailNewCallNotification{
		RecipientEmail: "ada@example.com",
		RecipientName:  "Ada",
		CallerName:     "Grace Hopper",
		CallerPhone:    "+4915112345678",
		Duration:       4*time.Minute + 5*time.Second,
		Summary:        "Caller asked about invoice 42.",
		Tags:           []string{"billing", "invoice"},
		DashboardURL:   "https://app.callisi.io/calls/call-123",
	}

	text, err := renderTemplate(templates.NewCall.Text, notification)
	require.NoError(t, err)
	assert.Contains(t, text, "Grace Hopper")
	assert.Contains(t, text, "+4915112345678")
	assert.Contains(t, text, "4:05 min")
	assert.Contains(t, text, "billing, invoice")
	assert.Contains(t, text, "Caller asked about invoice 42.")
	assert.Contains(t, text, "https://app.callisi.io/calls/call-123")

	html, err := renderTemplate(templates.NewCall.HTML, notification)
	require.NoError(t, err)
	assert.Contains(t, html, "Grace Hopper")
	assert.Contains(t, html, "https://app.callisi.io/calls/call-123")
}

func TestRenderNewCallTextIsNotHTMLEscaped(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	notification := domain.EmailNewCallNotification{
		RecipientEmail: "ada@example.com",
		CallerName:     "Müller & Söhne",
		CallerPhone:    "+4915112345678",
		DashboardURL:   "https://app.callisi.io/calls/call-123",
	}

	// The plain-text part must carry the characters verbatim, not as HTML
	// entities.
	text, err := renderTemplate(templates.NewCall.Text, notification)
	require.NoError(t, err)
	assert.Contains(t, text, "Müller & Söhne")
	assert.Contains(t, text, "+4915112345678")
	assert.NotContains(t, text, "&amp;")
	assert.NotContains(t, text, "&#43;")
}

func TestRenderNewCallTemplateWithoutOptionalFields(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	notification := domain.EmailNewCallNotification{
		RecipientEmail: "ada@example.com",
		CallerName:     "Unknown caller",
		DashboardURL:   "https://app.callisi.io/calls/call-123",
	}

	text, err := renderTemplate(templates.NewCall.Text, notification)
	require.NoError(t, err)
	assert.Contains(t, text, "N/A")
	assert.NotContains(t, text, "Summary:")
	assert.NotContains(t, text, "Tags:")
}

func TestRenderEmployeeInviteTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	invitation := domain.EmailEmployeeInvitation{
		RecipientEmail:   "grace@example.com",
		RecipientName:    "Grace",
		OrganizationName: "Acme Support",
		InvitedBy:        "Ada Lovelace",
		InviteURL:        "https://app.callisi.io/invite/token-abc",
		ExpiresAt:        time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC),
	}

	text, err := renderTemplate(templates.EmployeeInvite.Text, invitation)
	require.NoError(t, err)
	assert.Contains(t, text, "Acme Support")
	assert.Contains(t, text, "Ada Lovelace")
	assert.Contains(t, text, "https://app.callisi.io/invite/token-abc")
	assert.Contains(t, text, "March 21, 2026")
}

func TestRenderTaskAssignedTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	assignment := domain.EmailTaskAssignment{
		RecipientEmail: "grace@example.com",
		RecipientName:  "Grace",
		TaskTitle:      "Follow up with caller",
		DueDate:        "2026-03-20",
		DashboardURL:   "https://app.callisi.io/tasks",
	}

	text, err := renderTemplate(templates.TaskAssigned.Text, assignment)
	require.NoError(t, err)
	assert.Contains(t, text, "Follow up with caller")
	assert.Contains(t, text, "2026-03-20")
	assert.Contains(t, text, "https://app.callisi.io/tasks")
}

func TestFormatCallDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{
			name:     "minutes and seconds",
			duration: 4*time.Minute + 5*time.Second,
			want:     "4:05 min",
		},
		{
			name:     "under a minute",
			duration: 42 * time.Second,
			want:     "0:42 min",
		},
		{
			name:     "zero duration",
			duration: 0,
			want:     "N/A",
		},
		{
			name:     "negative duration",
			duration: -time.Minute,
			want:     "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCallDuration(tt.duration))
		})
	}
}

func TestNewLineToBreakLine(t *testing.T) {
	got := newLineToBreakLine("line one\nline <two>")
	assert.Equal(t, "line one<br>line &lt;two&gt;", string(got))
}
