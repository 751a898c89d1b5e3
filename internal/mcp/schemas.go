package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"docchunk/internal/chunker"
)

// chunkMarkdownTool returns the tool definition for chunk_markdown
func chunkMarkdownTool() mcp.Tool {
	return mcp.Tool{
		Name: "chunk_markdown",
		Description: "Split a markdown document into text records of bounded size and code records, " +
			"linked by parent_link_id. Fenced code blocks are removed from the text and returned separately.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Markdown source of one document",
				},
				"origin": map[string]any{
					"type":        "string",
					"description": "Origin attached to every record (defaults to the server's configured origin)",
				},
				"size": map[string]any{
					"type":        "integer",
					"description": "Target chunk size in characters",
					"default":     chunker.DefaultChunkSize,
					"minimum":     1,
				},
			},
			Required: []string{"text"},
		},
	}
}

// extractCodeTool returns the tool definition for extract_code
func extractCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_code",
		Description: "Replace every fenced code block of a markdown document with a placeholder and return the blocks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"text": map[string]any{
					"type":        "string",
					"description": "Markdown source of one document",
				},
			},
			Required: []string{"text"},
		},
	}
}
