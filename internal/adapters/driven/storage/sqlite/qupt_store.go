package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// quptStore implements driven.QuptStore.
type quptStore struct {
	store *Store
}

var _ driven.QuptStore = (*quptStore)(nil)

// BatchInsert stores a batch of qupts. Rows whose external_id already
// exists are skipped without erroring the batch. Returns the number of
// rows actually inserted.
func (s *quptStore) BatchInsert(ctx context.Context, qupts []domain.Qupt) (int, error) {
	if len(qupts) == 0 {
		return 0, nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO qupts (id, entanglement_id, zoku_id, content, source, external_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, q := range qupts {
		metadataJSON, err := json.Marshal(q.Metadata)
		if err != nil {
			return 0, fmt.Errorf("marshalling metadata: %w", err)
		}

		res, err := stmt.ExecContext(ctx, q.ID, q.EntanglementID, q.ZokuID,
			q.Content, q.Source, q.ExternalID, string(metadataJSON), q.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting qupt: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("checking insert: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return inserted, nil
}

// Get retrieves a qupt by ID.
func (s *quptStore) Get(ctx context.Context, id string) (*domain.Qupt, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, entanglement_id, zoku_id, content, source, external_id, metadata, created_at
		FROM qupts WHERE id = ?
	`, id)

	return scanQupt(row)
}

// List returns qupts for an entanglement, newest first, up to limit.
func (s *quptStore) List(ctx context.Context, entanglementID string, limit int) ([]domain.Qupt, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, entanglement_id, zoku_id, content, source, external_id, metadata, created_at
		FROM qupts WHERE entanglement_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, entanglementID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying qupts: %w", err)
	}
	defer rows.Close()

	var qupts []domain.Qupt //nolint:prealloc // size unknown from query
	for rows.Next() {
		qupt, err := scanQupt(rows)
		if err != nil {
			return nil, err
		}
		qupts = append(qupts, *qupt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating qupts: %w", err)
	}

	return qupts, nil
}

// DeleteBySource removes all qupts for an entanglement and provider tag.
func (s *quptStore) DeleteBySource(ctx context.Context, entanglementID, provider string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM qupts WHERE entanglement_id = ? AND source = ?", entanglementID, provider)
	if err != nil {
		return fmt.Errorf("deleting qupts: %w", err)
	}
	return nil
}

// scanQupt scans a single qupt row.
func scanQupt(row rowScanner) (*domain.Qupt, error) {
	var qupt domain.Qupt
	var metadataJSON sql.NullString

	if err := row.Scan(&qupt.ID, &qupt.EntanglementID, &qupt.ZokuID, &qupt.Content,
		&qupt.Source, &qupt.ExternalID, &metadataJSON, &qupt.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning qupt: %w", err)
	}

	if metadataJSON.Valid && metadataJSON.String != jsonNull && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &qupt.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &qupt, nil
}
