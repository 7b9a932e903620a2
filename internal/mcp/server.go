// Package mcp exposes the permission engine to agents over the Model
// Context Protocol. An agent asks for a file's ACL before editing and
// checks a specific line before writing to it.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/engine"
)

// Config holds MCP server configuration.
type Config struct {
	ConfigPath string
	Version    string
}

// Server wraps the MCP SDK server around the resolution engine.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *engine.Engine
}

// New creates an MCP server with a loaded engine and registered tools.
func New(cfg Config) (*Server, error) {
	engineCfg, err := engine.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine config: %w", err)
	}
	eng, err := engine.New(engineCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	s := &Server{engine: eng}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "guardline",
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all guardline tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "guardline_acl",
		Description: "Resolve the per-line access permissions of a source file. Returns one entry per line with the effective state for each actor (ai, human, custom).",
	}, s.handleACL)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "guardline_check",
		Description: "Check whether an actor holds a required access (read/write) on a specific line before touching it. Blocked lines return allowed=false with the effective state.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "guardline_tags",
		Description: "List the raw guard tags of a source file with their resolved line ranges.",
	}, s.handleTags)
}

// loadDocument builds a Document from inline text or, when text is
// empty, from the file at path.
func (s *Server) loadDocument(path, language, text string) (*document.Document, error) {
	if text == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		text = string(data)
	}
	if language == "" {
		language = document.DetectLanguage(path)
	}
	return document.New(filepath.Clean(path), language, text), nil
}
