package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// ListEntanglementsInput is the input schema for the list_entanglements tool.
type ListEntanglementsInput struct{}

// EntanglementOutput represents a single entanglement.
type EntanglementOutput struct {
	ID          string `json:"id"`
	ParentID    string `json:"parent_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListEntanglementsOutput is the output schema for the list_entanglements tool.
type ListEntanglementsOutput struct {
	Entanglements []EntanglementOutput `json:"entanglements"`
	Count         int                  `json:"count"`
}

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct {
	EntanglementID string `json:"entanglement_id,omitempty" jsonschema:"only return sources owned by this entanglement"`
}

// SourceOutput represents a single configured source.
type SourceOutput struct {
	ID             string `json:"id"`
	EntanglementID string `json:"entanglement_id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	Enabled        bool   `json:"enabled"`
	LastSync       string `json:"last_sync,omitempty"`
	LastError      string `json:"last_error,omitempty"`
	ErrorCount     int    `json:"error_count"`
}

// ListSourcesOutput is the output schema for the list_sources tool.
type ListSourcesOutput struct {
	Sources []SourceOutput `json:"sources"`
	Count   int            `json:"count"`
}

// SyncSourceInput is the input schema for the sync_source tool.
type SyncSourceInput struct {
	SourceID string `json:"source_id" jsonschema:"the ID of the source to synchronise"`
}

// SyncSourceOutput is the output schema for the sync_source tool.
type SyncSourceOutput struct {
	Success   bool   `json:"success"`
	Collected int    `json:"collected,omitempty"`
	Inserted  int    `json:"inserted,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ListQuptsInput is the input schema for the list_qupts tool.
type ListQuptsInput struct {
	EntanglementID string `json:"entanglement_id" jsonschema:"the entanglement whose activity to list"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of qupts to return (default 50)"`
}

// QuptOutput represents a single qupt.
type QuptOutput struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Source    string `json:"source"`
	ZokuID    string `json:"zoku_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ListQuptsOutput is the output schema for the list_qupts tool.
type ListQuptsOutput struct {
	Qupts []QuptOutput `json:"qupts"`
	Count int          `json:"count"`
}

// CreateQuptInput is the input schema for the create_qupt tool.
type CreateQuptInput struct {
	EntanglementID string `json:"entanglement_id" jsonschema:"the entanglement to record activity against"`
	Content        string `json:"content" jsonschema:"a one-line summary of the activity"`
	ZokuID         string `json:"zoku_id,omitempty" jsonschema:"the acting participant, when known"`
}

// CreateQuptOutput is the output schema for the create_qupt tool.
type CreateQuptOutput struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
}

// ListZokuInput is the input schema for the list_zoku tool.
type ListZokuInput struct{}

// ZokuOutput represents a single participant.
type ZokuOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Email string `json:"email,omitempty"`
}

// ListZokuOutput is the output schema for the list_zoku tool.
type ListZokuOutput struct {
	Zoku  []ZokuOutput `json:"zoku"`
	Count int          `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entanglements",
		Description: "List all entanglements (projects) with their hierarchy",
	}, s.handleListEntanglements)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List configured activity sources and their sync state",
	}, s.handleListSources)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_source",
		Description: "Trigger one synchronisation attempt for a source",
	}, s.handleSyncSource)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_qupts",
		Description: "List recent activity (qupts) for an entanglement, newest first",
	}, s.handleListQupts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_qupt",
		Description: "Record a manual activity entry against an entanglement",
	}, s.handleCreateQupt)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_zoku",
		Description: "List all participants (zoku)",
	}, s.handleListZoku)
}

// handleListEntanglements handles the list_entanglements tool invocation.
func (s *Server) handleListEntanglements(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListEntanglementsInput,
) (*mcp.CallToolResult, ListEntanglementsOutput, error) {
	if s.ports.Entanglement == nil {
		return nil, ListEntanglementsOutput{}, errors.New("entanglement service not available")
	}

	entanglements, err := s.ports.Entanglement.List(ctx)
	if err != nil {
		return nil, ListEntanglementsOutput{}, err
	}

	output := ListEntanglementsOutput{
		Entanglements: make([]EntanglementOutput, len(entanglements)),
		Count:         len(entanglements),
	}
	for i, e := range entanglements {
		output.Entanglements[i] = EntanglementOutput{
			ID:          e.ID,
			ParentID:    e.ParentID,
			Name:        e.Name,
			Description: e.Description,
		}
	}

	return nil, output, nil
}

// handleListSources handles the list_sources tool invocation.
func (s *Server) handleListSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSourcesInput,
) (*mcp.CallToolResult, ListSourcesOutput, error) {
	sources, err := s.ports.Source.List(ctx, input.EntanglementID)
	if err != nil {
		return nil, ListSourcesOutput{}, err
	}

	output := ListSourcesOutput{
		Sources: make([]SourceOutput, len(sources)),
		Count:   len(sources),
	}
	for i, src := range sources {
		out := SourceOutput{
			ID:             src.ID,
			EntanglementID: src.EntanglementID,
			Type:           src.Type,
			Name:           src.Name,
			Enabled:        src.Enabled,
			LastError:      src.LastError,
			ErrorCount:     src.ErrorCount,
		}
		if src.LastSync != nil {
			out.LastSync = src.LastSync.Format(time.RFC3339)
		}
		output.Sources[i] = out
	}

	return nil, output, nil
}

// handleSyncSource handles the sync_source tool invocation. A failed sync
// attempt is reported in the output rather than as a tool error, mirroring
// the REST trigger: the failure is already recorded on the source.
func (s *Server) handleSyncSource(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncSourceInput,
) (*mcp.CallToolResult, SyncSourceOutput, error) {
	outcome, err := s.ports.Sync.Sync(ctx, input.SourceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrSourceDisabled) ||
			errors.Is(err, domain.ErrSyncInProgress) {
			return nil, SyncSourceOutput{}, err
		}
		return nil, SyncSourceOutput{Success: false, Error: err.Error()}, nil
	}

	return nil, SyncSourceOutput{
		Success:   true,
		Collected: outcome.Collected,
		Inserted:  outcome.Inserted,
	}, nil
}

// handleListQupts handles the list_qupts tool invocation.
func (s *Server) handleListQupts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListQuptsInput,
) (*mcp.CallToolResult, ListQuptsOutput, error) {
	if s.ports.Qupt == nil {
		return nil, ListQuptsOutput{}, errors.New("qupt service not available")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	qupts, err := s.ports.Qupt.List(ctx, input.EntanglementID, limit)
	if err != nil {
		return nil, ListQuptsOutput{}, err
	}

	output := ListQuptsOutput{
		Qupts: make([]QuptOutput, len(qupts)),
		Count: len(qupts),
	}
	for i, q := range qupts {
		output.Qupts[i] = QuptOutput{
			ID:        q.ID,
			Content:   q.Content,
			Source:    q.Source,
			ZokuID:    q.ZokuID,
			CreatedAt: q.CreatedAt.Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleCreateQupt handles the create_qupt tool invocation.
func (s *Server) handleCreateQupt(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateQuptInput,
) (*mcp.CallToolResult, CreateQuptOutput, error) {
	if s.ports.Qupt == nil {
		return nil, CreateQuptOutput{}, errors.New("qupt service not available")
	}

	created, err := s.ports.Qupt.Create(ctx, domain.Qupt{
		EntanglementID: input.EntanglementID,
		ZokuID:         input.ZokuID,
		Content:        input.Content,
	})
	if err != nil {
		return nil, CreateQuptOutput{}, err
	}

	return nil, CreateQuptOutput{ID: created.ID, ExternalID: created.ExternalID}, nil
}

// handleListZoku handles the list_zoku tool invocation.
func (s *Server) handleListZoku(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListZokuInput,
) (*mcp.CallToolResult, ListZokuOutput, error) {
	if s.ports.Zoku == nil {
		return nil, ListZokuOutput{}, errors.New("zoku service not available")
	}

	zoku, err := s.ports.Zoku.List(ctx)
	if err != nil {
		return nil, ListZokuOutput{}, err
	}

	output := ListZokuOutput{
		Zoku:  make([]ZokuOutput, len(zoku)),
		Count: len(zoku),
	}
	for i, z := range zoku {
		output.Zoku[i] = ZokuOutput{ID: z.ID, Name: z.Name, Kind: z.Kind, Email: z.Email}
	}

	return nil, output, nil
}
