// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// CallRepository defines the interface for call storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type CallRepository interface {
	Create(ctx context.Context, call *models.Call) error
	Get(ctx context.Context, callUID string) (*models.Call, error)
	GetWithRevision(ctx context.Context, callUID string) (*models.Call, uint64, error)
	Update(ctx context.Context, call *models.Call, revision uint64) error

	// GetByExternalRef looks up the call for an (org, external ref) pair
	// via the index written at create time.
	GetByExternalRef(ctx context.Context, orgID, externalRef string) (*models.Call, error)
	GetByExternalRefWithRevision(ctx context.Context, orgID, externalRef string) (*models.Call, uint64, error)
}

// TranscriptRepository defines the interface for transcript fragment storage.
type TranscriptRepository interface {
	Create(ctx context.Context, fragment *models.TranscriptFragment) error
	ListByCall(ctx context.Context, callUID string) ([]*models.TranscriptFragment, error)

	// MaxSequence returns the highest assigned sequence number for a call,
	// or zero when the call has no fragments yet.
	MaxSequence(ctx context.Context, callUID string) (int, error)
}

// ProjectRepository defines the interface for project lookups.
type ProjectRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
}

// AuditRepository defines the interface for the raw event audit trail.
type AuditRepository interface {
	Create(ctx context.Context, record *models.RawEventRecord) error
	ListByOrg(ctx context.Context, orgID string) ([]*models.RawEventRecord, error)
}

// OrgMemberRepository defines the interface for organization member storage.
type OrgMemberRepository interface {
	Get(ctx context.Context, orgID, memberUID string) (*models.OrgMember, error)
	GetWithRevision(ctx context.Context, orgID, memberUID string) (*models.OrgMember, uint64, error)
	Update(ctx context.Context, member *models.OrgMember, revision uint64) error
	ListByOrg(ctx context.Context, orgID string) ([]*models.OrgMember, error)
}
