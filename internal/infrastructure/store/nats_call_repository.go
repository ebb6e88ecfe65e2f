// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// NatsCallRepository implements CallRepository using the NATS KV store.
// Calls are stored under their UID; an encoded index key per
// (org, external ref) pair points back at the UID so webhook events can
// find their call without a bucket scan.
type NatsCallRepository struct {
	*NatsBaseRepository[models.Call]
	keyBuilder *KeyBuilder
}

// NewNatsCallRepository creates a new call repository
func NewNatsCallRepository(kvStore INatsKeyValue) *NatsCallRepository {
	return &NatsCallRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Call](kvStore, "call"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// externalRefIndexKey builds the encoded index key for an (org, external ref) pair.
func (r *NatsCallRepository) externalRefIndexKey(orgID, externalRef string) string {
	return r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexExternalRef, orgID, externalRef)
}

// Create stores a new call and claims the external ref index entry for it.
// The index create is the arbiter for concurrent creates of the same
// (org, external ref) pair: the loser's row is rolled back and the conflict
// surfaces to the caller, keeping at most one call per session.
func (r *NatsCallRepository) Create(ctx context.Context, call *models.Call) error {
	if err := r.NatsBaseRepository.Create(ctx, call.UID, call); err != nil {
		return err
	}

	err := r.CreateIndex(ctx, r.externalRefIndexKey(call.OrgID, call.ExternalRef), call.UID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// Lost the race: another create already owns the index. Remove
			// the unreachable row so it can't be mistaken for the call.
			_ = r.NatsBaseRepository.Delete(ctx, call.UID)
			return domain.NewConflictError("call already exists for session", err)
		}
		return err
	}

	return nil
}

// Get retrieves a call by UID
func (r *NatsCallRepository) Get(ctx context.Context, callUID string) (*models.Call, error) {
	return r.NatsBaseRepository.Get(ctx, callUID)
}

// GetWithRevision retrieves a call with its revision
func (r *NatsCallRepository) GetWithRevision(ctx context.Context, callUID string) (*models.Call, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, callUID)
}

// Update updates an existing call with optimistic concurrency control
func (r *NatsCallRepository) Update(ctx context.Context, call *models.Call, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, call.UID, call, revision)
}

// GetByExternalRef retrieves the call for an (org, external ref) pair
func (r *NatsCallRepository) GetByExternalRef(ctx context.Context, orgID, externalRef string) (*models.Call, error) {
	call, _, err := r.GetByExternalRefWithRevision(ctx, orgID, externalRef)
	return call, err
}

// GetByExternalRefWithRevision retrieves the call for an (org, external ref)
// pair along with its revision for CAS updates.
func (r *NatsCallRepository) GetByExternalRefWithRevision(ctx context.Context, orgID, externalRef string) (*models.Call, uint64, error) {
	callUID, err := r.GetIndex(ctx, r.externalRefIndexKey(orgID, externalRef))
	if err != nil {
		return nil, 0, err
	}

	return r.NatsBaseRepository.GetWithRevision(ctx, callUID)
}
