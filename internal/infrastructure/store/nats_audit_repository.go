// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/domain/models"
	"github.com/bytecrafter52-dot/callisi-ingest-service/internal/logging"
	"github.com/vmihailenco/msgpack/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NatsAuditRepository implements AuditRepository using the NATS KV store.
// Records are append-only and msgpack-encoded: the audit trail is written
// on every verified delivery, so the compact encoding matters more than
// the human readability JSON would give.
type NatsAuditRepository struct {
	kvStore    INatsKeyValue
	keyBuilder *KeyBuilder
}

// NewNatsAuditRepository creates a new audit trail repository
func NewNatsAuditRepository(kvStore INatsKeyValue) *NatsAuditRepository {
	return &NatsAuditRepository{
		kvStore:    kvStore,
		keyBuilder: NewKeyBuilder(""),
	}
}

// IsReady checks if the repository is ready for use
func (r *NatsAuditRepository) IsReady() bool {
	return r.kvStore != nil
}

// recordKey builds the encoded key for an audit record.
func (r *NatsAuditRepository) recordKey(orgID, recordUID string) string {
	return r.keyBuilder.CompoundKeyEncoded(KeyPrefixAudit, orgID, recordUID)
}

// Create appends a raw event record to the audit trail.
func (r *NatsAuditRepository) Create(ctx context.Context, record *models.RawEventRecord) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.put",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "put"),
			attribute.String("db.nats.entity", "audit record"),
			attribute.String("event.kind", record.Kind),
		),
	)
	defer span.End()

	if !r.IsReady() {
		err := domain.NewUnavailableError("audit record repository is not available")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	data, err := msgpack.Marshal(record)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling audit record", logging.ErrKey, err)
		err = domain.NewInternalError("failed to marshal audit record", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = r.kvStore.Put(ctx, r.recordKey(record.OrgID, record.UID), data)
	if err != nil {
		slog.ErrorContext(ctx, "error creating audit record in NATS KV",
			logging.ErrKey, err, "record_uid", record.UID)
		err = domain.NewInternalError("failed to create audit record in store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListByOrg retrieves all audit records for an organization.
func (r *NatsAuditRepository) ListByOrg(ctx context.Context, orgID string) ([]*models.RawEventRecord, error) {
	if !r.IsReady() {
		return nil, domain.NewUnavailableError("audit record repository is not available")
	}

	lister, err := r.kvStore.ListKeys(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list audit record keys from store", err)
	}

	prefix := fmt.Sprintf("/%s/%s/", KeyPrefixAudit, orgID)
	var records []*models.RawEventRecord
	for encodedKey := range lister.Keys() {
		decodedKey, err := r.keyBuilder.DecodeKey(encodedKey)
		if err != nil || !strings.HasPrefix(decodedKey, prefix) {
			continue
		}

		entry, err := r.kvStore.Get(ctx, encodedKey)
		if err != nil {
			slog.WarnContext(ctx, "failed to get audit record, skipping",
				"key", encodedKey, logging.ErrKey, err)
			continue
		}

		var record models.RawEventRecord
		if err := msgpack.Unmarshal(entry.Value(), &record); err != nil {
			slog.WarnContext(ctx, "failed to unmarshal audit record, skipping",
				"key", encodedKey, logging.ErrKey, err)
			continue
		}

		records = append(records, &record)
	}

	return records, nil
}
