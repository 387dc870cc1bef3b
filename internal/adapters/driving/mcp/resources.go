package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for entangled resources.
	uriScheme = "entangled://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing sources.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of all configured activity sources",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Template for an entanglement's recent activity.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entanglements/{entanglementId}/qupts",
		Name:        "entanglement-qupts",
		Description: "Recent activity for a specific entanglement",
		MIMEType:    "application/json",
	}, s.handleQuptsResource)
}

// handleSourcesResource returns a list of all configured sources.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources, err := s.ports.Source.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	// Build simplified source list.
	type sourceInfo struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}

	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		infos[i] = sourceInfo{
			ID:      src.ID,
			Name:    src.Name,
			Type:    src.Type,
			Enabled: src.Enabled,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleQuptsResource returns recent activity for a specific entanglement.
func (s *Server) handleQuptsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Qupt == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entanglementID := extractEntanglementID(req.Params.URI)
	if entanglementID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	qupts, err := s.ports.Qupt.List(ctx, entanglementID, 50)
	if err != nil {
		return nil, fmt.Errorf("listing qupts: %w", err)
	}

	type quptInfo struct {
		ID        string `json:"id"`
		Content   string `json:"content"`
		Source    string `json:"source"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]quptInfo, len(qupts))
	for i, q := range qupts {
		infos[i] = quptInfo{
			ID:        q.ID,
			Content:   q.Content,
			Source:    q.Source,
			CreatedAt: q.CreatedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling qupts: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractEntanglementID pulls the entanglement ID out of a
// entangled://entanglements/{entanglementId}/qupts URI.
func extractEntanglementID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"entanglements/")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/qupts")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
