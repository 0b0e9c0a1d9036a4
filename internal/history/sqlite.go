package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteRepository implements Repository on the characteristic_values and
// characteristic_history tables. Values are stored as JSON.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository on an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record upserts the last known value and appends the change in one
// transaction.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - c: Change to persist; an empty Source is stored as SourceMQTT
//
// Returns:
//   - error: ErrInvalidKey, or the underlying database error
func (r *SQLiteRepository) Record(ctx context.Context, c Change) error {
	if err := validateKey(c.Key); err != nil {
		return err
	}
	if c.Source == "" {
		c.Source = SourceMQTT
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	createdAt := c.CreatedAt.UTC().Format(time.RFC3339)

	valueJSON, err := json.Marshal(c.Value)
	if err != nil {
		return fmt.Errorf("marshalling value: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO characteristic_values (aid, service_index, characteristic, value, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(aid, service_index, characteristic) DO UPDATE SET
			value = excluded.value,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		int64(c.AID), c.Service, c.Characteristic, string(valueJSON), c.Source, createdAt,
	); err != nil {
		return fmt.Errorf("upserting value: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO characteristic_history (aid, service_index, characteristic, accessory, value, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(c.AID), c.Service, c.Characteristic, c.Accessory, string(valueJSON), c.Source, createdAt,
	); err != nil {
		return fmt.Errorf("inserting history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing change: %w", err)
	}
	return nil
}

// Latest returns the last known value of every key.
func (r *SQLiteRepository) Latest(ctx context.Context) (map[Key]any, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT aid, service_index, characteristic, value FROM characteristic_values")
	if err != nil {
		return nil, fmt.Errorf("querying values: %w", err)
	}
	defer rows.Close()

	values := make(map[Key]any)
	for rows.Next() {
		var key Key
		var aid int64
		var valueJSON string
		if err := rows.Scan(&aid, &key.Service, &key.Characteristic, &valueJSON); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		key.AID = uint64(aid) //nolint:gosec // written from a uint64

		var v any
		if err := json.Unmarshal([]byte(valueJSON), &v); err != nil {
			return nil, fmt.Errorf("unmarshalling value for %s: %w", key, err)
		}
		values[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating values: %w", err)
	}
	return values, nil
}

// History returns recent changes for key, newest first.
func (r *SQLiteRepository) History(ctx context.Context, key Key, limit int) ([]Change, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, accessory, value, source, created_at
		FROM characteristic_history
		WHERE aid = ? AND service_index = ? AND characteristic = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`,
		int64(key.AID), key.Service, key.Characteristic, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	changes := make([]Change, 0, limit)
	for rows.Next() {
		c := Change{Key: key}
		var valueJSON, createdAt string
		if err := rows.Scan(&c.ID, &c.Accessory, &valueJSON, &c.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		if err := json.Unmarshal([]byte(valueJSON), &c.Value); err != nil {
			return nil, fmt.Errorf("unmarshalling value: %w", err)
		}
		if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return changes, nil
}

// Prune deletes change log entries older than now-olderThan. Last known
// values are never pruned.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidRetention
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx, "DELETE FROM characteristic_history WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting history: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func validateKey(k Key) error {
	if k.AID == 0 || k.Characteristic == "" {
		return fmt.Errorf("%w: %s", ErrInvalidKey, k)
	}
	return nil
}

// parseTimestamp parses a timestamp written by Record or by the column
// default.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("created_at is empty")
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return ts, nil
}
