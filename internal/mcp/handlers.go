// ABOUTME: MCP tool handler implementations for the finreport server
// ABOUTME: Tool failures are returned as tool result errors, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harper/finreport/internal/models"
	"github.com/harper/finreport/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"
)

const defaultDocumentName = "document.txt"

var errNoDocument = errors.New("either path or text is required")

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	svc      *report.Service
	inflight *sync.WaitGroup // pipeline runs still writing artifacts
}

// GenerateReport handles the generate_report tool
func (h *Handlers) GenerateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.inflight.Add(1)
	defer h.inflight.Done()

	name, text, err := h.document(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.svc.GenerateReport(ctx, name, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report generation failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"run_id":   res.RunID,
		"artifact": res.Artifact.Name,
		"mode":     res.Extraction.Mode,
		"chunks":   res.Extraction.Chunks,
		"pages":    res.Pages,
		"fields":   res.Extraction.Results,
	})
}

// SummarizeDocument handles the summarize_document tool
func (h *Handlers) SummarizeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.inflight.Add(1)
	defer h.inflight.Done()

	format, err := report.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, text, err := h.document(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.svc.Summarize(ctx, name, text, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summarization failed: %v", err)), nil
	}
	return jsonResult(res)
}

// RetrieveContext handles the retrieve_context tool
func (h *Handlers) RetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.inflight.Add(1)
	defer h.inflight.Done()

	k := request.GetInt("k", 0)
	if k < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("k must be positive, got %d", k)), nil
	}
	name, text, err := h.document(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.svc.Digest(ctx, name, text, request.GetString("query", ""), k)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}
	return jsonResult(res)
}

// ListArtifacts handles the list_artifacts tool
func (h *Handlers) ListArtifacts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.svc.Storage()
	if store == nil {
		return mcp.NewToolResultError("no artifact storage configured"), nil
	}
	artifacts, err := store.ListArtifacts()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list artifacts: %v", err)), nil
	}
	if artifacts == nil {
		artifacts = []models.Artifact{}
	}
	return jsonResult(map[string]interface{}{"artifacts": artifacts})
}

// ListRuns handles the list_runs tool
func (h *Handlers) ListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.svc.Storage()
	if store == nil {
		return mcp.NewToolResultError("no artifact storage configured"), nil
	}
	runs, err := store.ListRuns(models.ArtifactKind(request.GetString("kind", "")), request.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}
	if runs == nil {
		runs = []models.Run{}
	}
	return jsonResult(map[string]interface{}{"runs": runs})
}

// Shutdown waits for in-flight tool calls to finish writing their artifacts
func (h *Handlers) Shutdown() {
	log.Debug().Msg("waiting for in-flight tool calls")
	h.inflight.Wait()
}

// document resolves the path or text arguments into a source name and its text
func (h *Handlers) document(request mcp.CallToolRequest) (string, string, error) {
	name := strings.TrimSpace(request.GetString("name", ""))

	if path := request.GetString("path", ""); path != "" {
		base, text, err := h.svc.LoadFile(path)
		if err != nil {
			return "", "", err
		}
		if name == "" {
			name = base
		}
		return name, text, nil
	}

	text := request.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return "", "", errNoDocument
	}
	if name == "" {
		name = defaultDocumentName
	}
	return name, text, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
