// Package engine orchestrates the resolution pipeline: tag scan, scope
// resolution, and the per-line sweep. It serializes work per document,
// memoizes results by document content, and applies edit deltas with
// partial scope-cache invalidation so repeated resolutions of large
// files stay cheap.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/guard"
	"github.com/guardline-dev/guardline/internal/model"
	"github.com/guardline-dev/guardline/internal/resolve"
	"github.com/guardline-dev/guardline/internal/scopemap"
	"github.com/guardline-dev/guardline/internal/stack"
	"github.com/guardline-dev/guardline/internal/syntax"
)

// Result is the resolved state of one document version. Immutable once
// returned; a new version produces a new Result.
type Result struct {
	DocID   string                       `json:"docId"`
	Version int                          `json:"version"`
	Tags    []*model.GuardTag            `json:"tags"`
	Lines   map[int]model.LinePermission `json:"lines"`
}

// PermissionAt returns the effective state for a 1-based line, or the
// synthetic line-0 state for out-of-range lines.
func (r *Result) PermissionAt(line int) model.LinePermission {
	if lp, ok := r.Lines[line]; ok {
		return lp
	}
	return r.Lines[0]
}

// Engine is the resolution entry point. Safe for concurrent use;
// operations on the same document ID serialize, different documents
// proceed in parallel.
type Engine struct {
	table    *scopemap.Table
	resolver *resolve.Resolver
	defaults model.Snapshot

	mu   sync.Mutex
	docs map[string]*docState
}

// docState is the per-document mutable state: the scope cache that
// survives edits and the last computed result.
type docState struct {
	mu     sync.Mutex
	cache  *resolve.Cache
	result *Result
	hash   string
}

// sync discards cached state when the document's content no longer
// matches what the cache was built against. Edits routed through
// Update keep the scope cache warm; any other content change (a file
// re-read, an external write) gets a cold start. Without this, a
// rebuilt document with the same ID would be served the previous
// content's permissions.
func (st *docState) sync(doc *document.Document) {
	if st.hash == doc.Hash() {
		return
	}
	if st.hash != "" {
		st.cache = resolve.NewCache()
	}
	st.result = nil
	st.hash = doc.Hash()
}

// New builds an engine from config. A nil config uses defaults.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	table, err := scopemap.Load(cfg.ScopeMap)
	if err != nil {
		return nil, fmt.Errorf("load scope map: %w", err)
	}
	defaults, err := cfg.defaultSnapshot()
	if err != nil {
		return nil, err
	}

	return &Engine{
		table:    table,
		resolver: resolve.New(syntax.NewProvider(table), table),
		defaults: defaults,
		docs:     make(map[string]*docState),
	}, nil
}

// Defaults returns the document-wide default snapshot.
func (e *Engine) Defaults() model.Snapshot { return e.defaults }

// Table returns the resolved mapping table, for inspection surfaces.
func (e *Engine) Table() *scopemap.Table { return e.table }

// ScanTags extracts the raw guard tags from a document, unresolved.
func (e *Engine) ScanTags(doc *document.Document) []*model.GuardTag {
	rules := guard.CommentRules{
		Line:  e.table.LineComments(doc.LanguageID()),
		Block: e.table.BlockComments(doc.LanguageID()),
	}
	parser := guard.NewParser(rules)

	var tags []*model.GuardTag
	for n := 1; n <= doc.LineCount(); n++ {
		if tag, ok := parser.Parse(n, doc.LineAt(n)); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResolveTags scans and resolves every tag's scope range.
func (e *Engine) ResolveTags(ctx context.Context, doc *document.Document) ([]*model.GuardTag, error) {
	st := e.stateFor(doc.ID())
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sync(doc)
	return e.resolveLocked(ctx, doc, st)
}

// ComputeLinePermissions runs the full pipeline and returns per-line
// effective permissions. Results are memoized by content: resolving
// the same content twice returns the identical result, and a document
// rebuilt with different content recomputes from scratch.
func (e *Engine) ComputeLinePermissions(ctx context.Context, doc *document.Document) (*Result, error) {
	st := e.stateFor(doc.ID())
	st.mu.Lock()
	defer st.mu.Unlock()

	st.sync(doc)
	if st.result != nil {
		return st.result, nil
	}
	return e.computeLocked(ctx, doc, st)
}

// Update applies an edit delta to the document and recomputes. Scope
// cache entries overlapping the edited region are invalidated, entries
// past it shift by the line delta, and everything else is reused. An
// invalid delta returns *model.InvalidEditError and changes nothing;
// the caller must re-read the text and do a full compute.
func (e *Engine) Update(ctx context.Context, doc *document.Document, edits []model.Edit) (*document.Document, *Result, error) {
	st := e.stateFor(doc.ID())
	st.mu.Lock()
	defer st.mu.Unlock()

	// The scope cache must describe the document the edits apply to
	// before partial invalidation is sound.
	st.sync(doc)

	next, err := doc.Apply(edits)
	if err != nil {
		return nil, nil, err
	}

	start, end := document.EditedRange(edits)
	if start > 0 {
		st.cache.InvalidateOverlap(start, end)
		st.cache.ShiftAfter(end, document.LineDelta(edits))
	}
	st.result = nil
	st.hash = next.Hash()

	result, err := e.computeLocked(ctx, next, st)
	if err != nil {
		return nil, nil, err
	}
	return next, result, nil
}

// Forget drops all cached state for a document ID. Used when the
// backing file disappears.
func (e *Engine) Forget(docID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.docs, docID)
}

func (e *Engine) stateFor(docID string) *docState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.docs[docID]
	if !ok {
		st = &docState{cache: resolve.NewCache()}
		e.docs[docID] = st
	}
	return st
}

func (e *Engine) resolveLocked(ctx context.Context, doc *document.Document, st *docState) ([]*model.GuardTag, error) {
	tags := e.ScanTags(doc)
	if err := e.resolver.ResolveAll(ctx, doc, tags, st.cache); err != nil {
		return nil, err
	}
	return tags, nil
}

func (e *Engine) computeLocked(ctx context.Context, doc *document.Document, st *docState) (*Result, error) {
	tags, err := e.resolveLocked(ctx, doc, st)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DocID:   doc.ID(),
		Version: doc.Version(),
		Tags:    tags,
		Lines:   stack.Resolve(doc, tags, e.defaults),
	}
	st.result = result
	return result, nil
}
