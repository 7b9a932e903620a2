package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/guardline-dev/guardline/internal/model"
)

// --- Input/Output types ---

// ACLInput defines parameters for the guardline_acl tool.
type ACLInput struct {
	Path     string `json:"path" jsonschema:"file path to resolve"`
	Language string `json:"language,omitempty" jsonschema:"language identifier, detected from the extension when omitted"`
	Text     string `json:"text,omitempty" jsonschema:"inline document text, read from path when omitted"`
}

// LineACL is one line's effective permission state.
type LineACL struct {
	Line        int               `json:"line"`
	Permissions map[string]string `json:"permissions"`
	Identifier  string            `json:"identifier,omitempty"`
}

// ACLOutput contains the resolved per-line permissions.
type ACLOutput struct {
	Path     string    `json:"path"`
	Language string    `json:"language"`
	Lines    []LineACL `json:"lines"`
	Error    string    `json:"error,omitempty"`
}

// CheckInput defines parameters for the guardline_check tool.
type CheckInput struct {
	Path     string `json:"path" jsonschema:"file path to check"`
	Line     int    `json:"line" jsonschema:"1-based line number"`
	Actor    string `json:"actor,omitempty" jsonschema:"actor name, defaults to ai"`
	Access   string `json:"access,omitempty" jsonschema:"required access: read or write, defaults to write"`
	Language string `json:"language,omitempty" jsonschema:"language identifier, detected from the extension when omitted"`
	Text     string `json:"text,omitempty" jsonschema:"inline document text, read from path when omitted"`
}

// CheckOutput contains the access decision for one line.
type CheckOutput struct {
	Allowed bool   `json:"allowed"`
	Line    int    `json:"line"`
	Actor   string `json:"actor"`
	State   string `json:"state"`
	Context bool   `json:"context,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TagsInput defines parameters for the guardline_tags tool.
type TagsInput struct {
	Path     string `json:"path" jsonschema:"file path to scan"`
	Language string `json:"language,omitempty" jsonschema:"language identifier, detected from the extension when omitted"`
	Text     string `json:"text,omitempty" jsonschema:"inline document text, read from path when omitted"`
}

// TagsOutput lists the file's resolved guard tags.
type TagsOutput struct {
	Path  string            `json:"path"`
	Tags  []*model.GuardTag `json:"tags"`
	Error string            `json:"error,omitempty"`
}

// --- Handlers ---

func (s *Server) handleACL(ctx context.Context, req *mcpsdk.CallToolRequest, input ACLInput) (*mcpsdk.CallToolResult, ACLOutput, error) {
	doc, err := s.loadDocument(input.Path, input.Language, input.Text)
	if err != nil {
		return nil, ACLOutput{}, err
	}

	result, err := s.engine.ComputeLinePermissions(ctx, doc)
	if err != nil {
		var inc *model.InconsistencyError
		if errors.As(err, &inc) {
			out := ACLOutput{Path: input.Path, Error: inc.Error()}
			return &mcpsdk.CallToolResult{IsError: true}, out, nil
		}
		return nil, ACLOutput{}, err
	}

	lines := make([]LineACL, 0, doc.LineCount())
	for n := 1; n <= doc.LineCount(); n++ {
		lp := result.PermissionAt(n)
		perms := make(map[string]string)
		for _, actor := range lp.Snapshot.Actors() {
			perms[actor] = lp.Snapshot.Get(actor).String()
		}
		lines = append(lines, LineACL{Line: n, Permissions: perms, Identifier: lp.Identifier})
	}

	return nil, ACLOutput{
		Path:     input.Path,
		Language: doc.LanguageID(),
		Lines:    lines,
	}, nil
}

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	actor := strings.ToLower(input.Actor)
	if actor == "" {
		actor = model.ActorAI
	}
	required := model.AccessWrite
	if input.Access != "" {
		parsed, ok := model.ParseAccess(input.Access)
		if !ok {
			return nil, CheckOutput{}, fmt.Errorf("unknown access %q (want read or write)", input.Access)
		}
		required = parsed
	}

	doc, err := s.loadDocument(input.Path, input.Language, input.Text)
	if err != nil {
		return nil, CheckOutput{}, err
	}
	if input.Line < 1 || input.Line > doc.LineCount() {
		return nil, CheckOutput{}, fmt.Errorf("line %d out of range (1-%d)", input.Line, doc.LineCount())
	}

	result, err := s.engine.ComputeLinePermissions(ctx, doc)
	if err != nil {
		var inc *model.InconsistencyError
		if errors.As(err, &inc) {
			out := CheckOutput{Line: input.Line, Actor: actor, Error: inc.Error()}
			return &mcpsdk.CallToolResult{IsError: true}, out, nil
		}
		return nil, CheckOutput{}, err
	}

	state := result.PermissionAt(input.Line).Snapshot.Get(actor)
	out := CheckOutput{
		Allowed: state.Allows(required),
		Line:    input.Line,
		Actor:   actor,
		State:   state.String(),
		Context: state.IsContext(),
	}
	if !out.Allowed {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func (s *Server) handleTags(ctx context.Context, req *mcpsdk.CallToolRequest, input TagsInput) (*mcpsdk.CallToolResult, TagsOutput, error) {
	doc, err := s.loadDocument(input.Path, input.Language, input.Text)
	if err != nil {
		return nil, TagsOutput{}, err
	}

	tags, err := s.engine.ResolveTags(ctx, doc)
	if err != nil {
		var inc *model.InconsistencyError
		if errors.As(err, &inc) {
			out := TagsOutput{Path: input.Path, Error: inc.Error()}
			return &mcpsdk.CallToolResult{IsError: true}, out, nil
		}
		return nil, TagsOutput{}, err
	}

	return nil, TagsOutput{Path: input.Path, Tags: tags}, nil
}

