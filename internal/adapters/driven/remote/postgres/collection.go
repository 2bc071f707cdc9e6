package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/custodia-labs/jobtrack/internal/core/domain"
)

// collection stores one entity kind as JSONB documents.
type collection[T domain.Record[T]] struct {
	pool *pgxpool.Pool
	kind domain.EntityKind
}

// Upsert replaces the document keyed by the record's ID.
func (c *collection[T]) Upsert(ctx context.Context, userID string, record T) error {
	body, err := encodeDocument(record)
	if err != nil {
		return err
	}

	_, err = c.pool.Exec(ctx, `
		INSERT INTO documents (user_id, collection, id, body, updated_at_ms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, collection, id) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at_ms = EXCLUDED.updated_at_ms
	`, userID, string(c.kind), record.RecordID(), body, record.RecordTimestamp())
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", c.kind, record.RecordID(), err)
	}
	return nil
}

// Delete removes the document.
func (c *collection[T]) Delete(ctx context.Context, userID, id string) error {
	_, err := c.pool.Exec(ctx,
		`DELETE FROM documents WHERE user_id = $1 AND collection = $2 AND id = $3`,
		userID, string(c.kind), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.kind, id, err)
	}
	return nil
}

// Since returns documents with updated_at_ms strictly greater than timestampMs.
func (c *collection[T]) Since(ctx context.Context, userID string, timestampMs int64) ([]T, error) {
	rows, err := c.pool.Query(ctx, `
		SELECT body FROM documents
		WHERE user_id = $1 AND collection = $2 AND updated_at_ms > $3
		ORDER BY updated_at_ms, id
	`, userID, string(c.kind), timestampMs)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.kind, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.kind, err)
		}
		rec, err := decodeDocument[T](body)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.kind, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c.kind, err)
	}
	return result, nil
}

// encodeDocument renders the remote document for a record. NeedsSync is
// tagged out of the JSON form.
func encodeDocument[T domain.Record[T]](record T) ([]byte, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", record.RecordID(), err)
	}
	return body, nil
}

// decodeDocument parses a remote document. Pulled records are never dirty.
func decodeDocument[T domain.Record[T]](body []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(body, &rec); err != nil {
		return rec, err
	}
	return rec.WithNeedsSync(false), nil
}
