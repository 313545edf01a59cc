// Package mcp exposes the diagnosis pipeline as MCP tools over stdio, so
// editor agents can diagnose pasted errors without shelling out to the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"debugassist/src/contracts"
	"debugassist/src/diagnose"
	"debugassist/src/sanitize"
	"debugassist/src/traceback"
)

// Server is the MCP server for debugassist.
type Server struct {
	mcpServer *server.MCPServer
	engine    *diagnose.Engine
}

// tracebackSummary is the structural view attached to diagnose responses.
type tracebackSummary struct {
	ExceptionLine string `json:"exception_line"`
	OriginFile    string `json:"origin_file,omitempty"`
	OriginLine    int    `json:"origin_line,omitempty"`
	Hash          string `json:"hash"`
}

// diagnoseResponse is the diagnose tool payload.
type diagnoseResponse struct {
	*diagnose.Report
	Traceback *tracebackSummary `json:"traceback,omitempty"`
}

// NewServer creates a new MCP server over a loaded diagnosis engine.
func NewServer(engine *diagnose.Engine) *Server {
	s := server.NewMCPServer(
		"debugassist",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		engine:    engine,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	diagnoseTool := mcp.NewTool("diagnose",
		mcp.WithDescription("Diagnose a pasted Python error or traceback. Returns the predicted error family, a fix checklist, and similar solved cases. Low-confidence predictions return checklists for the top candidate families instead."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The error/traceback text as pasted from the terminal"),
		),
		mcp.WithString("code",
			mcp.Description("Optional code snippet for added context"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of similar cases to return (default: 3)"),
		),
	)

	similarTool := mcp.NewTool("similar_cases",
		mcp.WithDescription("Find prior solved cases most similar to an error text, with cosine similarity scores. Use when only retrieval is needed, without classification."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The error text to match against the corpus"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of cases to return (default: 3)"),
		),
	)

	playbookTool := mcp.NewTool("playbook",
		mcp.WithDescription("Get the fix checklist for a known error family. Pass the original error text to also surface keyword-triggered tips."),
		mcp.WithString("family",
			mcp.Required(),
			mcp.Description("Error family label, e.g. key_error, import_error"),
		),
		mcp.WithString("text",
			mcp.Description("Optional raw error text used to trigger keyword tips"),
		),
	)

	s.mcpServer.AddTool(diagnoseTool, s.handleDiagnose)
	s.mcpServer.AddTool(similarTool, s.handleSimilarCases)
	s.mcpServer.AddTool(playbookTool, s.handlePlaybook)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handleDiagnose handles the diagnose tool call.
func (s *Server) handleDiagnose(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := sanitize.Clean(request.GetString("text", ""))
	if text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	code := request.GetString("code", "")
	topK := request.GetInt("top_k", diagnose.DefaultTopK)

	report, err := s.engine.Diagnose(text, code, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagnosis failed: %v", err)), nil
	}

	response := diagnoseResponse{Report: report}
	if trace, ok := traceback.Parse(text); ok {
		summary := &tracebackSummary{
			ExceptionLine: trace.ExceptionLine(),
			Hash:          trace.Hash(),
		}
		if origin, ok := trace.Origin(); ok {
			summary.OriginFile = origin.File
			summary.OriginLine = origin.Line
		}
		response.Traceback = summary
	}

	jsonBytes, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleSimilarCases handles the similar_cases tool call.
func (s *Server) handleSimilarCases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := sanitize.Clean(request.GetString("text", ""))
	if text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	topK := request.GetInt("top_k", diagnose.DefaultTopK)

	cases, err := s.engine.SimilarCases(text, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	jsonBytes, err := json.Marshal(cases)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handlePlaybook handles the playbook tool call.
func (s *Server) handlePlaybook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("family", "")
	family, err := contracts.ParseFamily(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := request.GetString("text", "")

	payload := struct {
		Family      contracts.ErrorFamily `json:"family"`
		Suggestions []string              `json:"suggestions"`
	}{
		Family:      family,
		Suggestions: s.engine.Suggestions(family, text),
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}
