// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// NatsOrgMemberRepository implements OrgMemberRepository using the NATS KV
// store. Members are stored under encoded compound keys of the form
// member/<org UID>/<member UID> so a notification fanout can list one
// organization without scanning values.
type NatsOrgMemberRepository struct {
	*NatsBaseRepository[models.OrgMember]
	keyBuilder *KeyBuilder
}

// NewNatsOrgMemberRepository creates a new org member repository
func NewNatsOrgMemberRepository(kvStore INatsKeyValue) *NatsOrgMemberRepository {
	return &NatsOrgMemberRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.OrgMember](kvStore, "org member"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// memberKey builds the encoded key for an org member.
func (r *NatsOrgMemberRepository) memberKey(orgID, memberUID string) string {
	return r.keyBuilder.CompoundKeyEncoded(KeyPrefixMember, orgID, memberUID)
}

// Create stores a new org member.
func (r *NatsOrgMemberRepository) Create(ctx context.Context, member *models.OrgMember) error {
	return r.NatsBaseRepository.Create(ctx, r.memberKey(member.OrgID, member.UID), member)
}

// Get retrieves an org member
func (r *NatsOrgMemberRepository) Get(ctx context.Context, orgID, memberUID string) (*models.OrgMember, error) {
	return r.NatsBaseRepository.Get(ctx, r.memberKey(orgID, memberUID))
}

// GetWithRevision retrieves an org member with its revision
func (r *NatsOrgMemberRepository) GetWithRevision(ctx context.Context, orgID, memberUID string) (*models.OrgMember, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, r.memberKey(orgID, memberUID))
}

// Update updates an org member with optimistic concurrency control
func (r *NatsOrgMemberRepository) Update(ctx context.Context, member *models.OrgMember, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.memberKey(member.OrgID, member.UID), member, revision)
}

// ListByOrg retrieves all members of an organization
func (r *NatsOrgMemberRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.OrgMember, error) {
	pattern := fmt.Sprintf("%s/%s/", KeyPrefixMember, orgID)
	return r.ListEntitiesEncoded(ctx, pattern, r.keyBuilder)
}
