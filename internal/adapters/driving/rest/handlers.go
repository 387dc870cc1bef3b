package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

// Entanglements

func (s *Server) handleListEntanglements(w http.ResponseWriter, r *http.Request) {
	if s.ports.Entanglement == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "entanglement service not available")
		return
	}

	entanglements, err := s.ports.Entanglement.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]entanglementView, len(entanglements))
	for i, e := range entanglements {
		views[i] = toEntanglementView(e)
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateEntanglement(w http.ResponseWriter, r *http.Request) {
	if s.ports.Entanglement == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "entanglement service not available")
		return
	}

	var req struct {
		Name        string `json:"name"`
		ParentID    string `json:"parent_id"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	created, err := s.ports.Entanglement.Create(r.Context(), domain.Entanglement{
		Name:        req.Name,
		ParentID:    req.ParentID,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toEntanglementView(*created))
}

func (s *Server) handleGetEntanglement(w http.ResponseWriter, r *http.Request) {
	if s.ports.Entanglement == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "entanglement service not available")
		return
	}

	e, err := s.ports.Entanglement.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toEntanglementView(*e))
}

// Zoku

func (s *Server) handleListZoku(w http.ResponseWriter, r *http.Request) {
	if s.ports.Zoku == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "zoku service not available")
		return
	}

	zoku, err := s.ports.Zoku.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]zokuView, len(zoku))
	for i, z := range zoku {
		views[i] = toZokuView(z)
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateZoku(w http.ResponseWriter, r *http.Request) {
	if s.ports.Zoku == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "zoku service not available")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Kind  string `json:"kind"`
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	created, err := s.ports.Zoku.Create(r.Context(), domain.Zoku{
		Name:  req.Name,
		Kind:  req.Kind,
		Email: req.Email,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toZokuView(*created))
}

// Sources

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.ports.Source.List(r.Context(), r.URL.Query().Get("entanglement_id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSourceViews(sources))
}

func (s *Server) handleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntanglementID string          `json:"entanglement_id"`
		Type           string          `json:"type"`
		Name           string          `json:"name"`
		Config         json.RawMessage `json:"config"`
		JewelID        string          `json:"jewel_id"`
		Credential     json.RawMessage `json:"credential"`
		BackdateDays   int             `json:"backdate_days"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	created, err := s.ports.Source.Create(r.Context(), driving.CreateSourceInput{
		EntanglementID: req.EntanglementID,
		Type:           req.Type,
		Name:           req.Name,
		Config:         req.Config,
		JewelID:        req.JewelID,
		Credential:     req.Credential,
		BackdateDays:   req.BackdateDays,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSourceView(*created))
}

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	source, err := s.ports.Source.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSourceView(*source))
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	if req.Enabled == nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", "enabled field is required")
		return
	}

	id := chi.URLParam(r, "id")
	if err := s.ports.Source.SetEnabled(r.Context(), id, *req.Enabled); err != nil {
		respondError(w, err)
		return
	}

	source, err := s.ports.Source.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSourceView(*source))
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	err := s.ports.Source.Delete(r.Context(), chi.URLParam(r, "id"), queryBool(r, "cascade"))
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSyncSource triggers one sync attempt for one source. The attempt's
// failure is part of the response payload rather than an HTTP error: it was
// already recorded on the source's error state, and the caller asked for the
// attempt, not a guarantee.
func (s *Server) handleSyncSource(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.ports.Sync.Sync(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		// Not-found, disabled and concurrency guards are request errors,
		// not sync-attempt outcomes.
		if errorsIsAny(err, domain.ErrNotFound, domain.ErrSourceDisabled, domain.ErrSyncInProgress) {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, syncResponse{Success: false, Error: err.Error()})
		return
	}

	respondJSON(w, http.StatusOK, syncResponse{
		Success:   true,
		Collected: outcome.Collected,
		Inserted:  outcome.Inserted,
	})
}

func (s *Server) handleSyncAll(w http.ResponseWriter, r *http.Request) {
	run, err := s.ports.Sync.SyncAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSyncRunView(*run))
}

func (s *Server) handleListSyncRuns(w http.ResponseWriter, r *http.Request) {
	if s.ports.Runs == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "run history not available")
		return
	}

	runs, err := s.ports.Runs.List(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]syncRunView, len(runs))
	for i, run := range runs {
		views[i] = toSyncRunView(run)
	}
	respondJSON(w, http.StatusOK, views)
}

// Jewels

func (s *Server) handleListJewels(w http.ResponseWriter, r *http.Request) {
	if s.ports.Jewel == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "jewel service not available")
		return
	}

	jewels, err := s.ports.Jewel.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]jewelView, len(jewels))
	for i, j := range jewels {
		views[i] = toJewelView(j)
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateJewel(w http.ResponseWriter, r *http.Request) {
	if s.ports.Jewel == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "jewel service not available")
		return
	}

	var req struct {
		Name       string                 `json:"name"`
		Type       string                 `json:"type"`
		Credential json.RawMessage        `json:"credential"`
		Validation domain.JewelValidation `json:"validation"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	created, err := s.ports.Jewel.Create(r.Context(), driving.CreateJewelInput{
		Name:       req.Name,
		Type:       req.Type,
		Credential: req.Credential,
		Validation: req.Validation,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toJewelView(*created))
}

func (s *Server) handleJewelUsage(w http.ResponseWriter, r *http.Request) {
	if s.ports.Jewel == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "jewel service not available")
		return
	}

	sources, err := s.ports.Jewel.Usage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toSourceViews(sources))
}

func (s *Server) handleDeleteJewel(w http.ResponseWriter, r *http.Request) {
	if s.ports.Jewel == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "jewel service not available")
		return
	}

	if err := s.ports.Jewel.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Qupts

func (s *Server) handleListQupts(w http.ResponseWriter, r *http.Request) {
	if s.ports.Qupt == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "qupt service not available")
		return
	}

	qupts, err := s.ports.Qupt.List(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit", 50))
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]quptView, len(qupts))
	for i, q := range qupts {
		views[i] = toQuptView(q)
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateQupt(w http.ResponseWriter, r *http.Request) {
	if s.ports.Qupt == nil {
		respondErrorCode(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "qupt service not available")
		return
	}

	var req struct {
		EntanglementID string         `json:"entanglement_id"`
		ZokuID         string         `json:"zoku_id"`
		Content        string         `json:"content"`
		Metadata       map[string]any `json:"metadata"`
		CreatedAt      *time.Time     `json:"created_at"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	qupt := domain.Qupt{
		EntanglementID: req.EntanglementID,
		ZokuID:         req.ZokuID,
		Content:        req.Content,
		Metadata:       req.Metadata,
	}
	if req.CreatedAt != nil {
		qupt.CreatedAt = *req.CreatedAt
	}

	created, err := s.ports.Qupt.Create(r.Context(), qupt)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toQuptView(*created))
}
