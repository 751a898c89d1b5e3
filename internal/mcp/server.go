// Package mcp exposes the chunker as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"docchunk/internal/service"
)

const (
	// ServerName is the MCP server name
	ServerName = "docchunk"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp          *server.MCPServer
	chunkService service.ChunkService
}

// NewServer creates a new MCP server instance with the chunking tools registered.
func NewServer(chunkService service.ChunkService) *Server {
	s := &Server{
		mcp:          server.NewMCPServer(ServerName, ServerVersion),
		chunkService: chunkService,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(chunkMarkdownTool(), s.handleChunkMarkdown)
	s.mcp.AddTool(extractCodeTool(), s.handleExtractCode)
}
