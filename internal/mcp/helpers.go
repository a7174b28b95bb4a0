package mcp

import (
	"bytes"
	"encoding/json"

	mcp_sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewTextResult creates a CallToolResult with text content
func NewTextResult(text string) *mcp_sdk.CallToolResult {
	return &mcp_sdk.CallToolResult{
		Content: []mcp_sdk.Content{
			&mcp_sdk.TextContent{Text: text},
		},
	}
}

// NewErrorResult creates a CallToolResult indicating an error
func NewErrorResult(msg string) *mcp_sdk.CallToolResult {
	return &mcp_sdk.CallToolResult{
		IsError: true,
		Content: []mcp_sdk.Content{
			&mcp_sdk.TextContent{Text: msg},
		},
	}
}

// jsonResult renders a title line followed by the pretty-printed platform
// payload. Payloads are passed through untouched apart from indentation.
func jsonResult(title string, payload json.RawMessage) *mcp_sdk.CallToolResult {
	if len(payload) == 0 {
		return NewTextResult(title)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return NewTextResult(title + "\n\n" + string(payload))
	}
	return NewTextResult(title + "\n\n" + buf.String())
}
