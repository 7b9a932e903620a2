// Package resolve turns a tag's scope declaration into a concrete
// line range. Structural scopes go through the syntax provider and the
// mapping table; languages without structural support fall back to
// regex and indentation heuristics; and when everything else fails the
// implicit policy applies: the range runs to the next tag or end of
// file, trimmed of trailing blanks.
package resolve

import (
	"context"
	"fmt"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/model"
	"github.com/guardline-dev/guardline/internal/scopemap"
	"github.com/guardline-dev/guardline/internal/syntax"
)

// Boundary is a resolved scope range, 1-based inclusive.
type Boundary struct {
	Start, End int
	Type       string
}

// Resolver resolves tag scopes for one mapping table and provider.
type Resolver struct {
	provider syntax.Provider
	table    *scopemap.Table
}

// New builds a resolver.
func New(provider syntax.Provider, table *scopemap.Table) *Resolver {
	return &Resolver{provider: provider, table: table}
}

// ResolveAll resolves every tag in order, setting ScopeStart/ScopeEnd.
// The tree is built once per call; cache may be nil. A hard failure
// (mapping-table inconsistency) aborts the whole resolution: the
// caller must treat permissions for this document as unknown rather
// than guess.
func (r *Resolver) ResolveAll(ctx context.Context, doc *document.Document, tags []*model.GuardTag, cache *Cache) error {
	if len(tags) == 0 {
		return nil
	}

	tree, err := r.provider.Parse(ctx, doc)
	if err != nil {
		return fmt.Errorf("syntax parse: %w", err)
	}

	tagLines := make(map[int]bool, len(tags))
	for _, t := range tags {
		tagLines[t.Line] = true
	}

	for i, tag := range tags {
		next := doc.LineCount() + 1
		if i+1 < len(tags) {
			next = tags[i+1].Line
		}
		b, err := r.resolveTag(doc, tree, tag, next, tagLines, cache)
		if err != nil {
			return err
		}
		tag.ScopeStart = b.Start
		tag.ScopeEnd = b.End
	}
	return nil
}

// resolveTag applies the scope policy for a single tag. nextTag is the
// line of the following tag, or lineCount+1 when none.
func (r *Resolver) resolveTag(doc *document.Document, tree *syntax.Tree, tag *model.GuardTag, nextTag int, tagLines map[int]bool, cache *Cache) (Boundary, error) {
	total := doc.LineCount()

	// Explicit line count needs no lookups: lines L..L+n-1.
	if tag.LineCount > 0 {
		end := tag.Line + tag.LineCount - 1
		if end > total {
			end = total
		}
		return Boundary{Start: tag.Line, End: end, Type: "line-count"}, nil
	}

	switch tag.Scope {
	case "":
		return r.implicitRange(doc, tag.Line, nextTag), nil
	case model.ScopeFile:
		return Boundary{Start: tag.Line, End: total, Type: model.ScopeFile}, nil
	case model.ScopeContext:
		return r.contextSpan(doc, tree, tag.Line, tagLines), nil
	}

	if cache != nil {
		if b, ok := cache.Get(tag); ok {
			return b, nil
		}
	}

	b, err := r.structuralScope(doc, tree, tag, nextTag)
	if err != nil {
		return Boundary{}, err
	}
	if cache != nil && b.Type != "implicit" {
		cache.Put(tag, b)
	}
	return b, nil
}

// structuralScope resolves func/class/block/sig/body/stmt and custom
// keywords, preferring the syntax tree and degrading per policy.
func (r *Resolver) structuralScope(doc *document.Document, tree *syntax.Tree, tag *model.GuardTag, nextTag int) (Boundary, error) {
	language := doc.LanguageID()

	if tree == nil || !r.table.Supported(language) {
		// No structural support: heuristics, then implicit. This is
		// the expected, benign path for unsupported languages.
		if b, ok := fallbackScope(doc, tag); ok {
			return b, nil
		}
		return r.implicitRange(doc, tag.Line, nextTag), nil
	}

	if tag.Scope == model.ScopeStmt {
		return statementSpan(doc, tree, tag.Line), nil
	}

	types := r.table.NodeTypes(language, tag.Scope)
	if types == nil {
		// The keyword is unmapped for this language. Custom keywords
		// are declared per language, so silence here is not a table
		// defect; the implicit policy applies.
		return r.implicitRange(doc, tag.Line, nextTag), nil
	}

	if tag.Scope == model.ScopeBlock {
		return r.blockScope(doc, tree, tag, nextTag), nil
	}

	node := tree.FindForward(tag.Line, types)
	if node == nil {
		// Structural support was claimed but no boundary exists:
		// a defect in the mapping table, never silently degraded.
		return Boundary{}, &model.InconsistencyError{
			Language: language,
			Scope:    tag.Scope,
			Line:     tag.Line,
		}
	}

	switch tag.Scope {
	case model.ScopeSig:
		end := node.SigEnd
		if end < node.Start {
			end = node.Start
		}
		return Boundary{Start: tag.Line, End: end, Type: tag.Scope}, nil
	case model.ScopeBody:
		if node.BodyStart == 0 {
			// One-liners have no inner body lines; cover the
			// construct instead.
			return Boundary{Start: node.Start, End: node.End, Type: tag.Scope}, nil
		}
		return Boundary{Start: node.BodyStart, End: node.BodyEnd, Type: tag.Scope}, nil
	default:
		return Boundary{Start: tag.Line, End: node.End, Type: tag.Scope}, nil
	}
}

// blockScope applies the ordered candidate rules for block scope:
//
//  1. an enclosing function or class claims the whole construct
//  2. otherwise the nearest forward block node
//  3. a boundary reaching end of file means no real block was found,
//     so the implicit policy applies
func (r *Resolver) blockScope(doc *document.Document, tree *syntax.Tree, tag *model.GuardTag, nextTag int) Boundary {
	language := doc.LanguageID()
	searchPoint := tag.Line + 1
	if searchPoint > doc.LineCount() {
		searchPoint = doc.LineCount()
	}

	enclosingTypes := append(append([]string{},
		r.table.NodeTypes(language, model.ScopeFunc)...),
		r.table.NodeTypes(language, model.ScopeClass)...)

	candidates := []func() *syntax.Node{
		func() *syntax.Node {
			return syntax.ParentOfType(tree.Innermost(searchPoint), enclosingTypes)
		},
		func() *syntax.Node {
			return tree.FindForward(tag.Line, r.table.NodeTypes(language, model.ScopeBlock))
		},
	}

	for _, candidate := range candidates {
		node := candidate()
		if node == nil {
			continue
		}
		if node.End >= doc.LineCount() {
			// Reaching EOF means the block was not really located.
			continue
		}
		return Boundary{Start: tag.Line, End: node.End, Type: model.ScopeBlock}
	}

	return r.implicitRange(doc, tag.Line, nextTag)
}

// statementSpan covers the next logical statement: the first code line
// at or after the tag, extended while brackets stay open.
func statementSpan(doc *document.Document, tree *syntax.Tree, tagLine int) Boundary {
	start := tagLine
	for start <= doc.LineCount() && !tree.Line(start).HasCode {
		start++
	}
	if start > doc.LineCount() {
		return Boundary{Start: tagLine, End: tagLine, Type: model.ScopeStmt}
	}

	base := tree.Line(start - 1).BracketDepthEnd
	end := start
	for end < doc.LineCount() && tree.Line(end).BracketDepthEnd > base {
		end++
	}
	return Boundary{Start: tagLine, End: end, Type: model.ScopeStmt}
}

// implicitRange extends from the tag to the line before the next tag,
// or end of file, with trailing blanks trimmed back to the last
// non-blank line.
func (r *Resolver) implicitRange(doc *document.Document, tagLine, nextTag int) Boundary {
	end := nextTag - 1
	if end > doc.LineCount() {
		end = doc.LineCount()
	}
	if trimmed := doc.LastContentLine(end); trimmed >= tagLine {
		end = trimmed
	} else {
		end = tagLine
	}
	return Boundary{Start: tagLine, End: end, Type: "implicit"}
}
