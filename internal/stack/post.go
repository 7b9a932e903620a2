package stack

import (
	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/model"
)

// shortenOpenBlocks trims block-scope tags whose range fell through to
// end of file. When a later tag changes the same actor's permission,
// the block evidently ended before it: the earlier tag's range is cut
// back to the last non-blank line before the later tag. Without this,
// an unlocated block would swallow unrelated later code.
func shortenOpenBlocks(doc *document.Document, tags []*model.GuardTag) {
	lastContent := doc.LastContentLine(doc.LineCount())

	for i, tag := range tags {
		if tag.Scope != model.ScopeBlock {
			continue
		}
		if tag.ScopeEnd < lastContent {
			continue
		}
		for _, later := range tags[i+1:] {
			if later.Line <= tag.Line || !sharesActor(tag, later) {
				continue
			}
			end := doc.LastContentLine(later.Line - 1)
			if end >= tag.ScopeStart {
				tag.ScopeEnd = end
			}
			break
		}
	}
}

// sharesActor reports whether both tags claim a permission for at
// least one common actor.
func sharesActor(a, b *model.GuardTag) bool {
	for _, actor := range a.Claims.Actors() {
		if !b.Claims.Get(actor).IsUnset() {
			return true
		}
	}
	return false
}
