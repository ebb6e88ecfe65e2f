// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
)

// testEntity exercises the generic base repository.
type testEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNatsBaseRepository_IsReady(t *testing.T) {
	tests := []struct {
		name     string
		kvStore  INatsKeyValue
		expected bool
	}{
		{
			name:     "ready when kvStore is not nil",
			kvStore:  newMockNatsKeyValue(),
			expected: true,
		},
		{
			name:     "not ready when kvStore is nil",
			kvStore:  nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewNatsBaseRepository[testEntity](tt.kvStore, "test entity")
			assert.Equal(t, tt.expected, repo.IsReady())
		})
	}
}

func TestNatsBaseRepository_CreateAndGet(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	entity := &testEntity{ID: "abc", Name: "test"}
	require.NoError(t, repo.Create(ctx, "abc", entity))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, entity, got)
}

func TestNatsBaseRepository_GetNotFound(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsBaseRepository_GetUnmarshalError(t *testing.T) {
	kv := newMockNatsKeyValue()
	kv.data["bad"] = []byte("not json")
	kv.revisions["bad"] = 1
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")

	_, err := repo.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}

func TestNatsBaseRepository_GetWithRevision(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "abc", &testEntity{ID: "abc"}))
	require.NoError(t, repo.Update(ctx, "abc", &testEntity{ID: "abc", Name: "second"}, 1))

	got, revision, err := repo.GetWithRevision(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), revision)
	assert.Equal(t, "second", got.Name)
}

func TestNatsBaseRepository_CreateError(t *testing.T) {
	kv := newMockNatsKeyValue()
	kv.createError = errors.New("create failed")
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")

	err := repo.Create(context.Background(), "abc", &testEntity{ID: "abc"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}

func TestNatsBaseRepository_CreateExistingKeyConflict(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "abc", &testEntity{ID: "abc", Name: "first"}))

	err := repo.Create(ctx, "abc", &testEntity{ID: "abc", Name: "second"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	// The losing create must not touch the stored value.
	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestNatsBaseRepository_Update(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "abc", &testEntity{ID: "abc", Name: "first"}))

	err := repo.Update(ctx, "abc", &testEntity{ID: "abc", Name: "updated"}, 1)
	require.NoError(t, err)

	var stored testEntity
	require.NoError(t, json.Unmarshal(kv.data["abc"], &stored))
	assert.Equal(t, "updated", stored.Name)
}

func TestNatsBaseRepository_UpdateStaleRevision(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "abc", &testEntity{ID: "abc"}))

	err := repo.Update(ctx, "abc", &testEntity{ID: "abc", Name: "stale"}, 99)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsBaseRepository_UpdateMissingKey(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")

	err := repo.Update(context.Background(), "missing", &testEntity{ID: "missing"}, 1)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsBaseRepository_Exists(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, "abc", &testEntity{ID: "abc"}))

	exists, err = repo.Exists(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNatsBaseRepository_NotReady(t *testing.T) {
	repo := NewNatsBaseRepository[testEntity](nil, "test entity")
	ctx := context.Background()

	_, err := repo.Get(ctx, "abc")
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))

	err = repo.Create(ctx, "abc", &testEntity{ID: "abc"})
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))

	err = repo.Update(ctx, "abc", &testEntity{ID: "abc"}, 1)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))

	_, err = repo.ListKeys(ctx)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestNatsBaseRepository_ListKeys(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "a", &testEntity{ID: "a"}))
	require.NoError(t, repo.Create(ctx, "b", &testEntity{ID: "b"}))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestNatsBaseRepository_Index(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.PutIndex(ctx, "index-key", "entity-key"))

	target, err := repo.GetIndex(ctx, "index-key")
	require.NoError(t, err)
	assert.Equal(t, "entity-key", target)

	require.NoError(t, repo.DeleteIndex(ctx, "index-key"))

	_, err = repo.GetIndex(ctx, "index-key")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsBaseRepository_CreateIndexConflict(t *testing.T) {
	kv := newMockNatsKeyValue()
	repo := NewNatsBaseRepository[testEntity](kv, "test entity")
	ctx := context.Background()

	require.NoError(t, repo.CreateIndex(ctx, "index-key", "winner"))

	err := repo.CreateIndex(ctx, "index-key", "loser")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	// The index still points at the first entity.
	target, err := repo.GetIndex(ctx, "index-key")
	require.NoError(t, err)
	assert.Equal(t, "winner", target)
}
