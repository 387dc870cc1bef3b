package rest

import (
	"encoding/json"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// Views are the wire shapes for domain entities. Sources and jewels never
// expose their encrypted credential blobs.

type entanglementView struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toEntanglementView(e domain.Entanglement) entanglementView {
	return entanglementView{
		ID:          e.ID,
		ParentID:    e.ParentID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type zokuView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toZokuView(z domain.Zoku) zokuView {
	return zokuView{ID: z.ID, Name: z.Name, Kind: z.Kind, Email: z.Email, CreatedAt: z.CreatedAt}
}

type sourceView struct {
	ID             string          `json:"id"`
	EntanglementID string          `json:"entanglement_id"`
	Type           string          `json:"type"`
	Name           string          `json:"name"`
	Config         json.RawMessage `json:"config,omitempty"`
	JewelID        string          `json:"jewel_id,omitempty"`
	Enabled        bool            `json:"enabled"`
	LastSync       *time.Time      `json:"last_sync,omitempty"`
	SyncCursor     string          `json:"sync_cursor,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	ErrorCount     int             `json:"error_count"`
	LastErrorAt    *time.Time      `json:"last_error_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toSourceView(s domain.Source) sourceView {
	return sourceView{
		ID:             s.ID,
		EntanglementID: s.EntanglementID,
		Type:           s.Type,
		Name:           s.Name,
		Config:         s.Config,
		JewelID:        s.JewelID,
		Enabled:        s.Enabled,
		LastSync:       s.LastSync,
		SyncCursor:     s.SyncCursor,
		LastError:      s.LastError,
		ErrorCount:     s.ErrorCount,
		LastErrorAt:    s.LastErrorAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toSourceViews(sources []domain.Source) []sourceView {
	views := make([]sourceView, len(sources))
	for i, s := range sources {
		views[i] = toSourceView(s)
	}
	return views
}

type jewelView struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	Validation domain.JewelValidation `json:"validation"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func toJewelView(j domain.Jewel) jewelView {
	return jewelView{
		ID:         j.ID,
		Name:       j.Name,
		Type:       j.Type,
		Validation: j.Validation,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

type quptView struct {
	ID             string         `json:"id"`
	EntanglementID string         `json:"entanglement_id"`
	ZokuID         string         `json:"zoku_id,omitempty"`
	Content        string         `json:"content"`
	Source         string         `json:"source"`
	ExternalID     string         `json:"external_id"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func toQuptView(q domain.Qupt) quptView {
	return quptView{
		ID:             q.ID,
		EntanglementID: q.EntanglementID,
		ZokuID:         q.ZokuID,
		Content:        q.Content,
		Source:         q.Source,
		ExternalID:     q.ExternalID,
		Metadata:       q.Metadata,
		CreatedAt:      q.CreatedAt,
	}
}

type syncRunView struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	Succeeded     int       `json:"succeeded"`
	Failed        int       `json:"failed"`
	QuptsInserted int       `json:"qupts_inserted"`
}

func toSyncRunView(r domain.SyncRun) syncRunView {
	return syncRunView{
		ID:            r.ID,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
		Succeeded:     r.Succeeded,
		Failed:        r.Failed,
		QuptsInserted: r.QuptsInserted,
	}
}

// syncResponse is the manual-trigger result shape. Failures are reported
// here as data, not as an HTTP error: the attempt itself completed and its
// outcome was recorded on the source either way.
type syncResponse struct {
	Success   bool   `json:"success"`
	Collected int    `json:"collected,omitempty"`
	Inserted  int    `json:"inserted,omitempty"`
	Error     string `json:"error,omitempty"`
}
