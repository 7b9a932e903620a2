// Package guard extracts guard-tag declarations from source lines.
//
// A declaration has the shape
//
//	@guard:<who>:<perm>[.<modifier>][+scope][-scope]...
//
// where who is a comma list of actors, each optionally carrying a
// bracketed identifier ("ai[claude]"), and perm is read/write/none (or
// their aliases) or "context". The modifier is a line count when
// numeric, a read/write intent when the permission is "context", and a
// scope keyword otherwise. Several declarations packed on one line
// merge into a single GuardTag.
package guard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/guardline-dev/guardline/internal/model"
)

var (
	declPattern  = regexp.MustCompile(`@guard:([A-Za-z0-9_\[\],-]+):([A-Za-z]+(?:\.[A-Za-z0-9_]+)?(?:[+-][A-Za-z0-9_-]+)*)`)
	actorPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)(?:\[([^\]]*)\])?$`)
	permPattern  = regexp.MustCompile(`^([A-Za-z]+)(?:\.([A-Za-z0-9_]+))?((?:[+-][A-Za-z0-9_-]+)*)$`)
	modPattern   = regexp.MustCompile(`[+-][A-Za-z0-9_-]+`)
)

// actorAliases maps short actor names to canonical ones. Unlisted
// names pass through lowercased as custom actors.
var actorAliases = map[string]string{
	"hu": model.ActorHuman,
}

// Parser extracts tags for one language's comment conventions.
type Parser struct {
	rules CommentRules
}

// NewParser builds a parser with the given comment rules.
func NewParser(rules CommentRules) *Parser {
	return &Parser{rules: rules}
}

// Parse scans one line and returns the merged GuardTag, or false when
// the line carries no recognizable declaration. Malformed declarations
// (unknown actor or permission words) are ignored individually; a line
// where every declaration is malformed is ordinary text.
func (p *Parser) Parse(lineNumber int, line string) (*model.GuardTag, bool) {
	matches := declPattern.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		return nil, false
	}

	tag := &model.GuardTag{Line: lineNumber}
	found := false

	for _, m := range matches {
		if !p.rules.inComment(line, m[0]) {
			continue
		}
		who := line[m[2]:m[3]]
		permSpec := line[m[4]:m[5]]
		if mergeDecl(tag, who, permSpec) {
			found = true
		}
	}

	if !found {
		return nil, false
	}
	return tag, true
}

// mergeDecl folds one declaration into the accumulating tag. Returns
// false when the declaration is malformed.
func mergeDecl(tag *model.GuardTag, who, permSpec string) bool {
	pm := permPattern.FindStringSubmatch(permSpec)
	if pm == nil {
		return false
	}
	permWord, modifier, scopeMods := pm[1], pm[2], pm[3]

	state, scope, count, ok := decodePermission(permWord, modifier)
	if !ok {
		return false
	}

	var actors []parsedActor
	for _, spec := range strings.Split(who, ",") {
		actor, ok := parseActor(spec)
		if !ok {
			return false
		}
		actors = append(actors, actor)
	}

	// Everything decoded; apply. First occurrence wins for scope,
	// count, identifier, and any actor already claimed on this line.
	for _, a := range actors {
		if tag.Claims.Get(a.name).IsUnset() {
			tag.Claims = tag.Claims.Set(a.name, state)
		}
		if a.identifier != "" && tag.Identifier == "" {
			tag.Identifier = a.identifier
		}
	}
	if tag.Scope == "" && tag.LineCount == 0 {
		tag.Scope = scope
		tag.LineCount = count
	}
	for _, mod := range modPattern.FindAllString(scopeMods, -1) {
		name := strings.ToLower(mod[1:])
		if mod[0] == '+' {
			tag.AddScopes = appendUnique(tag.AddScopes, name)
		} else {
			tag.RemoveScopes = appendUnique(tag.RemoveScopes, name)
		}
	}
	return true
}

type parsedActor struct {
	name       string
	identifier string
}

func parseActor(spec string) (parsedActor, bool) {
	m := actorPattern.FindStringSubmatch(strings.TrimSpace(spec))
	if m == nil {
		return parsedActor{}, false
	}
	name := strings.ToLower(m[1])
	if canonical, ok := actorAliases[name]; ok {
		name = canonical
	}
	return parsedActor{name: name, identifier: m[2]}, true
}

// decodePermission turns a permission word plus modifier into the
// actor state, scope keyword, and line count.
func decodePermission(permWord, modifier string) (state model.State, scope string, count int, ok bool) {
	permWord = strings.ToLower(permWord)
	modifier = strings.ToLower(modifier)

	if permWord == "context" {
		// The modifier of a bare context permission is read/write
		// intent, never a structural scope: context spans always
		// resolve through the documentation walk.
		under := model.AccessUnset
		switch {
		case strings.HasPrefix(modifier, "w"):
			under = model.AccessWrite
		case strings.HasPrefix(modifier, "r"):
			under = model.AccessRead
		}
		return model.ContextState(under), model.ScopeContext, 0, true
	}

	access, known := model.ParseAccess(permWord)
	if !known {
		return model.Unset, "", 0, false
	}

	if modifier == "" {
		return model.Plain(access), "", 0, true
	}
	if n, err := strconv.Atoi(modifier); err == nil {
		if n < 1 {
			return model.Unset, "", 0, false
		}
		return model.Plain(access), "", n, true
	}
	if modifier == model.ScopeContext {
		// "read.context" form: permission with the context flag.
		return model.ContextState(access), model.ScopeContext, 0, true
	}
	return model.Plain(access), modifier, 0, true
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
