// ABOUTME: MCP tool definitions and registration for the finreport server
// ABOUTME: Exposes report generation, summaries, retrieval digests and the artifact ledger
package mcp

import (
	"sync"

	"github.com/harper/finreport/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName and ServerVersion identify the MCP server to clients
const (
	ServerName    = "finreport"
	ServerVersion = "0.1.0"
)

// documentProperties are the input fields shared by every tool that reads a document
func documentProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Path to a .txt, .md, .csv, .pdf, .docx or .xlsx file to read",
		},
		"text": map[string]interface{}{
			"type":        "string",
			"description": "Document text, used when path is not given",
		},
		"name": map[string]interface{}{
			"type":        "string",
			"description": "Source name used to derive artifact filenames (default: file name or document.txt)",
		},
	}
}

// NewServer creates an MCP server with every finreport tool registered
func NewServer(svc *report.Service) (*mcpserver.MCPServer, *Handlers) {
	server := mcpserver.NewMCPServer(ServerName, ServerVersion)
	return server, RegisterTools(server, svc)
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, svc *report.Service) *Handlers {
	handlers := &Handlers{
		svc:      svc,
		inflight: &sync.WaitGroup{},
	}

	// 1. generate_report - extract the schema fields and store a PDF report
	server.AddTool(mcp.Tool{
		Name:        "generate_report",
		Description: "Extract the configured financial line items from a document and store them as a paginated PDF report. Low-confidence fields are reported as N/A.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: documentProperties(),
		},
	}, handlers.GenerateReport)

	// 2. summarize_document - condense a document into a stored summary
	summaryProps := documentProperties()
	summaryProps["format"] = map[string]interface{}{
		"type":        "string",
		"description": "Artifact format: text or pdf (default: text)",
		"enum":        []string{"text", "pdf"},
	}
	server.AddTool(mcp.Tool{
		Name:        "summarize_document",
		Description: "Summarize a financial document and store the summary as a text or PDF artifact.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: summaryProps,
		},
	}, handlers.SummarizeDocument)

	// 3. retrieve_context - nearest-chunk digest for a query
	retrieveProps := documentProperties()
	retrieveProps["query"] = map[string]interface{}{
		"type":        "string",
		"description": "Retrieval query (default: the configured digest query)",
	}
	retrieveProps["k"] = map[string]interface{}{
		"type":        "number",
		"description": "Number of chunks to return (default: configured top-k)",
	}
	server.AddTool(mcp.Tool{
		Name:        "retrieve_context",
		Description: "Split a document into overlapping chunks, embed them and return the chunks nearest to a query as a digest.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: retrieveProps,
		},
	}, handlers.RetrieveContext)

	// 4. list_artifacts - stored reports, summaries and digests
	server.AddTool(mcp.Tool{
		Name:        "list_artifacts",
		Description: "List stored report, summary and digest artifacts, newest first.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListArtifacts)

	// 5. list_runs - the run ledger
	server.AddTool(mcp.Tool{
		Name:        "list_runs",
		Description: "List recent pipeline runs with their status and extracted fields.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Only runs of this kind: report, summary or digest",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of runs to return (default: 20)",
					"default":     20,
				},
			},
		},
	}, handlers.ListRuns)

	return handlers
}
