// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
)

// NatsTranscriptRepository implements TranscriptRepository using the NATS KV
// store. Fragments are stored under encoded compound keys of the form
// transcript/<call UID>/<seq>, with the sequence zero-padded so key order
// matches numeric order.
type NatsTranscriptRepository struct {
	*NatsBaseRepository[models.TranscriptFragment]
	keyBuilder *KeyBuilder
}

// seqKeyWidth is the zero-padding width of the sequence segment of
// fragment keys.
const seqKeyWidth = 8

// NewNatsTranscriptRepository creates a new transcript fragment repository
func NewNatsTranscriptRepository(kvStore INatsKeyValue) *NatsTranscriptRepository {
	return &NatsTranscriptRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.TranscriptFragment](kvStore, "transcript fragment"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// fragmentKey builds the encoded key for a fragment.
func (r *NatsTranscriptRepository) fragmentKey(callUID string, seq int) string {
	return r.keyBuilder.CompoundKeyEncoded(KeyPrefixTranscript, callUID, fmt.Sprintf("%0*d", seqKeyWidth, seq))
}

// Create stores a new transcript fragment under its sequence key.
func (r *NatsTranscriptRepository) Create(ctx context.Context, fragment *models.TranscriptFragment) error {
	return r.NatsBaseRepository.Create(ctx, r.fragmentKey(fragment.CallUID, fragment.Seq), fragment)
}

// ListByCall retrieves all fragments for a call ordered by sequence number.
func (r *NatsTranscriptRepository) ListByCall(ctx context.Context, callUID string) ([]*models.TranscriptFragment, error) {
	pattern := fmt.Sprintf("%s/%s/", KeyPrefixTranscript, callUID)
	fragments, err := r.ListEntitiesEncoded(ctx, pattern, r.keyBuilder)
	if err != nil {
		return nil, err
	}

	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Seq < fragments[j].Seq
	})

	return fragments, nil
}

// MaxSequence returns the highest assigned sequence number for a call, or
// zero when the call has no fragments. This is a key scan rather than a
// value scan: the sequence is the last segment of the fragment key.
func (r *NatsTranscriptRepository) MaxSequence(ctx context.Context, callUID string) (int, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return 0, err
	}

	prefix := fmt.Sprintf("/%s/%s/", KeyPrefixTranscript, callUID)
	maxSeq := 0
	for _, encodedKey := range keys {
		decodedKey, err := r.keyBuilder.DecodeKey(encodedKey)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(decodedKey, prefix) {
			continue
		}

		seq, err := strconv.Atoi(strings.TrimPrefix(decodedKey, prefix))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return maxSeq, nil
}
