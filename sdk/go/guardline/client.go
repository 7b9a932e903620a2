package guardline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/engine"
	"github.com/guardline-dev/guardline/internal/model"
)

// Client resolves guard tags in-process. Safe for concurrent use;
// resolved results are cached per document version.
type Client struct {
	cfg    clientConfig
	engine *engine.Engine
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{actor: model.ActorAI}
	for _, o := range opts {
		o(&cfg)
	}

	engineCfg, err := engine.LoadConfig(cfg.configPath)
	if err != nil {
		return nil, fmt.Errorf("guardline: failed to load config: %w", err)
	}
	if cfg.scopeMap != "" {
		engineCfg.ScopeMap = cfg.scopeMap
	}
	for actor, access := range cfg.defaults {
		engineCfg.Defaults[actor] = access
	}

	eng, err := engine.New(engineCfg)
	if err != nil {
		return nil, fmt.Errorf("guardline: failed to create engine: %w", err)
	}

	return &Client{cfg: cfg, engine: eng}, nil
}

// Check evaluates one edit without executing anything.
func (c *Client) Check(ctx context.Context, e Edit) (Result, error) {
	doc, err := c.loadDocument(e.Path, e.Language, e.Text)
	if err != nil {
		return Result{}, err
	}
	if e.Line < 1 || e.Line > doc.LineCount() {
		return Result{}, fmt.Errorf("guardline: line %d out of range (1-%d)", e.Line, doc.LineCount())
	}

	result, err := c.engine.ComputeLinePermissions(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	actor := e.Actor
	if actor == "" {
		actor = c.cfg.actor
	}
	required := model.AccessWrite
	if e.Access == Read {
		required = model.AccessRead
	}

	state := result.PermissionAt(e.Line).Snapshot.Get(actor)
	return Result{
		Allowed: state.Allows(required),
		Line:    e.Line,
		Actor:   actor,
		State:   state.String(),
		Context: state.IsContext(),
	}, nil
}

// ACL resolves every line of a file. Text overrides the on-disk
// content when non-empty.
func (c *Client) ACL(ctx context.Context, path, language, text string) ([]LinePermissions, error) {
	doc, err := c.loadDocument(path, language, text)
	if err != nil {
		return nil, err
	}
	result, err := c.engine.ComputeLinePermissions(ctx, doc)
	if err != nil {
		return nil, err
	}

	out := make([]LinePermissions, 0, doc.LineCount())
	for n := 1; n <= doc.LineCount(); n++ {
		lp := result.PermissionAt(n)
		perms := make(map[string]string)
		for _, actor := range lp.Snapshot.Actors() {
			perms[actor] = lp.Snapshot.Get(actor).String()
		}
		out = append(out, LinePermissions{Line: n, Permissions: perms, Identifier: lp.Identifier})
	}
	return out, nil
}

// Tags lists a file's guard tags with resolved line ranges.
func (c *Client) Tags(ctx context.Context, path, language, text string) ([]Tag, error) {
	doc, err := c.loadDocument(path, language, text)
	if err != nil {
		return nil, err
	}
	tags, err := c.engine.ResolveTags(ctx, doc)
	if err != nil {
		return nil, err
	}

	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTag(t))
	}
	return out, nil
}

// Forget drops the cached resolution state for a path.
func (c *Client) Forget(path string) {
	c.engine.Forget(filepath.Clean(path))
}

func (c *Client) loadDocument(path, language, text string) (*document.Document, error) {
	if text == "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("guardline: failed to read %s: %w", path, err)
		}
		text = string(data)
	}
	if language == "" {
		language = document.DetectLanguage(path)
	}
	return document.New(filepath.Clean(path), language, text), nil
}
