package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// ==================== Jewel Store ====================

// jewelStore implements driven.JewelStore.
type jewelStore struct {
	store *Store
}

var _ driven.JewelStore = (*jewelStore)(nil)

// Save stores or updates a jewel.
func (s *jewelStore) Save(ctx context.Context, jewel domain.Jewel) error {
	validationJSON, err := json.Marshal(jewel.Validation)
	if err != nil {
		return fmt.Errorf("marshalling validation: %w", err)
	}

	now := time.Now().UTC()
	if jewel.CreatedAt.IsZero() {
		jewel.CreatedAt = now
	}
	jewel.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO jewels (id, name, type, blob, validation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			blob = excluded.blob,
			validation = excluded.validation,
			updated_at = excluded.updated_at
	`, jewel.ID, jewel.Name, jewel.Type, jewel.Blob, string(validationJSON),
		jewel.CreatedAt, jewel.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving jewel: %w", err)
	}
	return nil
}

// Get retrieves a jewel by ID.
func (s *jewelStore) Get(ctx context.Context, id string) (*domain.Jewel, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, type, blob, validation, created_at, updated_at
		FROM jewels WHERE id = ?
	`, id)

	return scanJewel(row)
}

// Delete removes a jewel.
func (s *jewelStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM jewels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting jewel: %w", err)
	}
	return nil
}

// List returns all jewels.
func (s *jewelStore) List(ctx context.Context) ([]domain.Jewel, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, type, blob, validation, created_at, updated_at
		FROM jewels ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("querying jewels: %w", err)
	}
	defer rows.Close()

	var jewels []domain.Jewel //nolint:prealloc // size unknown from query
	for rows.Next() {
		jewel, err := scanJewel(rows)
		if err != nil {
			return nil, err
		}
		jewels = append(jewels, *jewel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jewels: %w", err)
	}

	return jewels, nil
}

// scanJewel scans a single jewel row.
func scanJewel(row rowScanner) (*domain.Jewel, error) {
	var jewel domain.Jewel
	var validationJSON sql.NullString

	if err := row.Scan(&jewel.ID, &jewel.Name, &jewel.Type, &jewel.Blob,
		&validationJSON, &jewel.CreatedAt, &jewel.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning jewel: %w", err)
	}

	if validationJSON.Valid && validationJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(validationJSON.String), &jewel.Validation); err != nil {
			return nil, fmt.Errorf("unmarshalling validation: %w", err)
		}
	}

	return &jewel, nil
}

// ==================== Entanglement Store ====================

// entanglementStore implements driven.EntanglementStore.
type entanglementStore struct {
	store *Store
}

var _ driven.EntanglementStore = (*entanglementStore)(nil)

// Save stores or updates an entanglement.
func (s *entanglementStore) Save(ctx context.Context, e domain.Entanglement) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO entanglements (id, parent_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			parent_id = excluded.parent_id,
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, e.ID, nullString(e.ParentID), e.Name, e.Description, e.CreatedAt, e.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving entanglement: %w", err)
	}
	return nil
}

// Get retrieves an entanglement by ID.
func (s *entanglementStore) Get(ctx context.Context, id string) (*domain.Entanglement, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, parent_id, name, description, created_at, updated_at
		FROM entanglements WHERE id = ?
	`, id)

	return scanEntanglement(row)
}

// Delete removes an entanglement.
func (s *entanglementStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM entanglements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entanglement: %w", err)
	}
	return nil
}

// List returns all entanglements.
func (s *entanglementStore) List(ctx context.Context) ([]domain.Entanglement, error) {
	return s.list(ctx, `
		SELECT id, parent_id, name, description, created_at, updated_at
		FROM entanglements ORDER BY created_at
	`)
}

// ListChildren returns direct children of an entanglement.
func (s *entanglementStore) ListChildren(ctx context.Context, parentID string) ([]domain.Entanglement, error) {
	return s.list(ctx, `
		SELECT id, parent_id, name, description, created_at, updated_at
		FROM entanglements WHERE parent_id = ? ORDER BY created_at
	`, parentID)
}

func (s *entanglementStore) list(ctx context.Context, query string, args ...any) ([]domain.Entanglement, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entanglements: %w", err)
	}
	defer rows.Close()

	var entanglements []domain.Entanglement //nolint:prealloc // size unknown from query
	for rows.Next() {
		e, err := scanEntanglement(rows)
		if err != nil {
			return nil, err
		}
		entanglements = append(entanglements, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entanglements: %w", err)
	}

	return entanglements, nil
}

// scanEntanglement scans a single entanglement row.
func scanEntanglement(row rowScanner) (*domain.Entanglement, error) {
	var e domain.Entanglement
	var parentID sql.NullString

	if err := row.Scan(&e.ID, &parentID, &e.Name, &e.Description,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entanglement: %w", err)
	}

	e.ParentID = parentID.String
	return &e, nil
}

// ==================== Zoku Store ====================

// zokuStore implements driven.ZokuStore.
type zokuStore struct {
	store *Store
}

var _ driven.ZokuStore = (*zokuStore)(nil)

// Save stores or updates a zoku.
func (s *zokuStore) Save(ctx context.Context, z domain.Zoku) error {
	if z.CreatedAt.IsZero() {
		z.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO zoku (id, name, kind, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			email = excluded.email
	`, z.ID, z.Name, z.Kind, z.Email, z.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving zoku: %w", err)
	}
	return nil
}

// Get retrieves a zoku by ID.
func (s *zokuStore) Get(ctx context.Context, id string) (*domain.Zoku, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, kind, email, created_at FROM zoku WHERE id = ?
	`, id)

	var z domain.Zoku
	if err := row.Scan(&z.ID, &z.Name, &z.Kind, &z.Email, &z.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning zoku: %w", err)
	}
	return &z, nil
}

// List returns all zoku.
func (s *zokuStore) List(ctx context.Context) ([]domain.Zoku, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, kind, email, created_at FROM zoku ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying zoku: %w", err)
	}
	defer rows.Close()

	var zoku []domain.Zoku //nolint:prealloc // size unknown from query
	for rows.Next() {
		var z domain.Zoku
		if err := rows.Scan(&z.ID, &z.Name, &z.Kind, &z.Email, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning zoku: %w", err)
		}
		zoku = append(zoku, z)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zoku: %w", err)
	}

	return zoku, nil
}
