// Package main provides the standalone MCP server entry point.
// It exposes the diagnose, similar_cases and playbook tools over stdio
// so an MCP client can call the diagnosis pipeline directly.
package main

import (
	"fmt"
	"os"

	"debugassist/src/config"
	"debugassist/src/diagnose"
	"debugassist/src/logger"
	"debugassist/src/mcp"
)

func main() {
	cfg := config.LoadFromEnv()

	// stdout carries the protocol, so logging stays silent.
	engine, err := diagnose.LoadEngine(cfg, logger.NewSilentLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := mcp.NewServer(engine).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
