package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// sourceStore implements driven.SourceStore.
type sourceStore struct {
	store *Store
}

var _ driven.SourceStore = (*sourceStore)(nil)

const sourceColumns = `id, entanglement_id, type, name, config, jewel_id, credential_blob,
	enabled, last_sync, sync_cursor, last_error, error_count, last_error_at, created_at, updated_at`

// Save stores or updates a source.
func (s *sourceStore) Save(ctx context.Context, source domain.Source) error {
	now := time.Now().UTC()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sources (`+sourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			entanglement_id = excluded.entanglement_id,
			type = excluded.type,
			name = excluded.name,
			config = excluded.config,
			jewel_id = excluded.jewel_id,
			credential_blob = excluded.credential_blob,
			enabled = excluded.enabled,
			last_sync = excluded.last_sync,
			sync_cursor = excluded.sync_cursor,
			last_error = excluded.last_error,
			error_count = excluded.error_count,
			last_error_at = excluded.last_error_at,
			updated_at = excluded.updated_at
	`, source.ID, source.EntanglementID, source.Type, source.Name, string(source.Config),
		nullString(source.JewelID), source.CredentialBlob, source.Enabled,
		nullTime(source.LastSync), source.SyncCursor, source.LastError,
		source.ErrorCount, nullTime(source.LastErrorAt), source.CreatedAt, source.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	return nil
}

// Get retrieves a source by ID.
func (s *sourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id)

	source, err := scanSource(row)
	if err != nil {
		return nil, err
	}
	return source, nil
}

// Delete removes a source.
func (s *sourceStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	return nil
}

// List returns all configured sources.
func (s *sourceStore) List(ctx context.Context) ([]domain.Source, error) {
	return s.list(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY created_at`)
}

// ListEnabled returns all sources with Enabled set.
func (s *sourceStore) ListEnabled(ctx context.Context) ([]domain.Source, error) {
	return s.list(ctx, `SELECT `+sourceColumns+` FROM sources WHERE enabled = 1 ORDER BY created_at`)
}

// ListByJewel returns all sources referencing a jewel.
func (s *sourceStore) ListByJewel(ctx context.Context, jewelID string) ([]domain.Source, error) {
	return s.list(ctx, `SELECT `+sourceColumns+` FROM sources WHERE jewel_id = ?`, jewelID)
}

func (s *sourceStore) list(ctx context.Context, query string, args ...any) ([]domain.Source, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source //nolint:prealloc // size unknown from query
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}

	return sources, nil
}

// UpdateSyncState applies a partial sync-state update. Only the fields set
// on the patch are touched; Config and Type are never mutated here.
func (s *sourceStore) UpdateSyncState(ctx context.Context, id string, patch domain.SyncStatePatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.LastSync != nil {
		sets = append(sets, "last_sync = ?")
		args = append(args, *patch.LastSync)
	}
	if patch.SyncCursor != nil {
		sets = append(sets, "sync_cursor = ?")
		args = append(args, *patch.SyncCursor)
	}
	if patch.ClearError {
		sets = append(sets, "last_error = ''", "error_count = 0", "last_error_at = NULL")
	}
	if patch.LastError != nil {
		sets = append(sets, "last_error = ?")
		args = append(args, *patch.LastError)
	}
	if patch.ErrorCount != nil {
		sets = append(sets, "error_count = ?")
		args = append(args, *patch.ErrorCount)
	}
	if patch.LastErrorAt != nil {
		sets = append(sets, "last_error_at = ?")
		args = append(args, *patch.LastErrorAt)
	}

	args = append(args, id)
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE sources SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating sync state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking sync state update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSource scans a single source row.
func scanSource(row rowScanner) (*domain.Source, error) {
	var source domain.Source
	var configJSON string
	var jewelID sql.NullString
	var lastSync, lastErrorAt sql.NullTime

	if err := row.Scan(&source.ID, &source.EntanglementID, &source.Type, &source.Name,
		&configJSON, &jewelID, &source.CredentialBlob, &source.Enabled,
		&lastSync, &source.SyncCursor, &source.LastError, &source.ErrorCount,
		&lastErrorAt, &source.CreatedAt, &source.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning source: %w", err)
	}

	source.Config = []byte(configJSON)
	source.JewelID = jewelID.String
	if lastSync.Valid {
		t := lastSync.Time
		source.LastSync = &t
	}
	if lastErrorAt.Valid {
		t := lastErrorAt.Time
		source.LastErrorAt = &t
	}

	return &source, nil
}

// nullTime converts a nil time pointer to a SQL NULL.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
