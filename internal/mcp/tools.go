package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"docchunk/internal/chunker"
	"docchunk/internal/contextutil"
	"docchunk/internal/service"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleChunkMarkdown handles the chunk_markdown tool invocation
func (s *Server) handleChunkMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]any{
			"param":  "text",
			"reason": "missing or not a string",
		})
	}
	origin, _ := args["origin"].(string)

	req := service.ChunkRequest{Text: text, Origin: origin}
	if raw, present := args["size"]; present {
		size, err := intArg(raw)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid size", map[string]any{
				"param":  "size",
				"reason": err.Error(),
			})
		}
		req.Size = &size
	}

	resp, err := s.chunkService.Chunk(ctx, req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			return nil, newMCPError(ErrorCodeInvalidParams, validationErr.Message, map[string]any{
				"param": validationErr.Field,
			})
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "chunk_markdown failed", "error", err)
		return nil, newMCPError(ErrorCodeInternalError, "chunking failed", map[string]any{
			"error": err.Error(),
		})
	}

	texts, code := resp.Texts, resp.Code
	if texts == nil {
		texts = []chunker.TextRecord{}
	}
	if code == nil {
		code = []chunker.CodeRecord{}
	}
	return mcp.NewToolResultText(formatJSON(map[string]any{
		"texts": texts,
		"code":  code,
	})), nil
}

// handleExtractCode handles the extract_code tool invocation
func (s *Server) handleExtractCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]any{
			"param":  "text",
			"reason": "missing or not a string",
		})
	}

	resp, err := s.chunkService.ExtractCode(ctx, service.ExtractRequest{Text: text})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "extraction failed", map[string]any{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]any{
		"text":   resp.Text,
		"blocks": resp.Blocks,
	})), nil
}

// intArg converts a JSON number argument to an int.
// Numbers arrive as float64 from the JSON decoder.
func intArg(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("must be an integer, got %v", n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("must be a number, got %T", v)
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data any) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    any
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats data as indented JSON.
func formatJSON(data any) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to format JSON: %s"}`, err.Error())
	}
	return string(b)
}
