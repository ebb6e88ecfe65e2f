// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// NatsProjectRepository implements ProjectRepository using the NATS KV store.
// Projects are stored under their slug, so webhook intake is a single point
// lookup per delivery.
type NatsProjectRepository struct {
	*NatsBaseRepository[models.Project]
	keyBuilder *KeyBuilder
}

// NewNatsProjectRepository creates a new project repository
func NewNatsProjectRepository(kvStore INatsKeyValue) *NatsProjectRepository {
	return &NatsProjectRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Project](kvStore, "project"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// Create stores a project under its slug.
func (r *NatsProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.NatsBaseRepository.Create(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixProject, project.Slug), project)
}

// GetBySlug retrieves a project by its URL slug
func (r *NatsProjectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.NatsBaseRepository.Get(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixProject, slug))
}
