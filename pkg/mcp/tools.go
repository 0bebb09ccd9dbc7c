package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shellweave/shellweave/internal/codegen"
	"github.com/shellweave/shellweave/internal/diagram"
	"github.com/shellweave/shellweave/pkg/graph"
)

// handleGenerate turns a snapshot into a script. Validation runs first
// unless explicitly disabled; validation errors fail the call, warnings
// ride along in the response.
func (s *WeaveServer) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, snap, errResult := s.parseSnapshot(req)
	if errResult != nil {
		return errResult, nil
	}

	if req.GetBool("validate", true) && s.validator != nil {
		result, err := s.validator.ValidateDocument(doc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
		}
		if !result.Valid() {
			return marshalResult(result)
		}
	}

	// Generators carry per-pass binder state: one per call.
	gen := codegen.New(
		codegen.WithLogger(s.logger),
		codegen.WithResolver(s.resolver),
	)
	res := gen.Generate(ctx, snap)

	return marshalResult(map[string]any{
		"script":   res.Script,
		"warnings": res.Warnings,
	})
}

// handleValidate checks a snapshot without generating.
func (s *WeaveServer) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, _, errResult := s.parseSnapshot(req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.validator.ValidateDocument(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}
	return marshalResult(result)
}

// handleDiagram renders a Mermaid preview of the snapshot graph.
func (s *WeaveServer) handleDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, snap, errResult := s.parseSnapshot(req)
	if errResult != nil {
		return errResult, nil
	}

	model, err := diagram.Build(snap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagram build failed: %v", err)), nil
	}
	return mcp.NewToolResultText(diagram.RenderMermaid(model)), nil
}

// parseSnapshot extracts and decodes the snapshot argument shared by all
// tools. Returns the raw document bytes and the decoded snapshot, or a
// tool error result.
func (s *WeaveServer) parseSnapshot(req mcp.CallToolRequest) ([]byte, *graph.Snapshot, *mcp.CallToolResult) {
	raw := mcp.ParseStringMap(req, "snapshot", nil)
	if raw == nil {
		return nil, nil, mcp.NewToolResultError("snapshot is required")
	}

	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid snapshot: %v", err))
	}

	snap, err := graph.ParseDocument(doc)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid snapshot: %v", err))
	}

	return doc, snap, nil
}

// marshalResult serializes a value as an indented-JSON tool result.
func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
