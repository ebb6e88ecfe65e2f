// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
)

func TestNoOpService(t *testing.T) {
	service := NewNoOpService()
	assert.NotNil(t, service)

	notification := domain.EmailNewCallNotification{
		RecipientEmail: "ada@example.com",
		CallerName:     "Grace Hopper",
	}

	invitation := domain.EmailEmployeeInvitation{
		RecipientEmail:   "grace@example.com",
		OrganizationName: "Acme Support",
		ExpiresAt:        time.Now().Add(7 * 24 * time.Hour),
	}

	assignment := domain.EmailTaskAssignment{
		RecipientEmail: "grace@example.com",
		TaskTitle:      "Follow up with caller",
	}

	t.Run("SendNewCallNotification", func(t *testing.T) {
		err := service.SendNewCallNotification(context.Background(), notification)
		assert.NoError(t, err)
	})

	t.Run("SendEmployeeInvitation", func(t *testing.T) {
		err := service.SendEmployeeInvitation(context.Background(), invitation)
		assert.NoError(t, err)
	})

	t.Run("SendTaskAssignment", func(t *testing.T) {
		err := service.SendTaskAssignment(context.Background(), assignment)
		assert.NoError(t, err)
	})
}
