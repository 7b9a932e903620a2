package guard

import "testing"

func FuzzParse(f *testing.F) {
	// Seed with the recognized forms
	f.Add("# @guard:ai:r.func")
	f.Add("# @guard:ai,human:w.block+decorators")
	f.Add("# @guard:ai[claude]:context.w")
	f.Add("# @guard:internal:read.context")
	f.Add("# @guard:ai:n.3")

	// Seed with near-misses
	f.Add("@guard:")
	f.Add("# @guard:ai:")
	f.Add("# @guard:ai:r.func @guard:hu:w.0")
	f.Add("x = \"@guard:ai:w\"")
	f.Add("")

	p := NewParser(DefaultRules())
	f.Fuzz(func(t *testing.T, line string) {
		// Must not panic on any input; a returned tag must be
		// internally consistent.
		tag, ok := p.Parse(1, line)
		if !ok {
			return
		}
		if tag.Line != 1 {
			t.Errorf("tag line corrupted: %d", tag.Line)
		}
		if tag.LineCount < 0 {
			t.Errorf("negative line count: %d", tag.LineCount)
		}
		if tag.LineCount > 0 && tag.Scope != "" {
			t.Errorf("line count and scope are mutually exclusive: count=%d scope=%q",
				tag.LineCount, tag.Scope)
		}
		if len(tag.Claims.Actors()) == 0 {
			t.Error("recognized tag with no actor claims")
		}
	})
}
