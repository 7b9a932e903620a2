package document

import (
	"sort"
	"strings"

	"github.com/guardline-dev/guardline/internal/model"
)

// Apply validates and applies a batch of edits, returning the next
// document version. The receiver is untouched. If any edit references
// positions outside the current bounds the whole batch is rejected
// with *model.InvalidEditError: a partially-valid delta must never be
// applied.
func (d *Document) Apply(edits []model.Edit) (*Document, error) {
	for _, e := range edits {
		if err := d.validate(e); err != nil {
			return nil, err
		}
	}

	// Apply bottom-up so earlier edits don't shift later positions.
	ordered := make([]model.Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartLine != ordered[j].StartLine {
			return ordered[i].StartLine > ordered[j].StartLine
		}
		return ordered[i].StartCol > ordered[j].StartCol
	})

	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	for _, e := range ordered {
		lines = applyOne(lines, e)
	}

	return &Document{
		id:       d.id,
		version:  d.version + 1,
		language: d.language,
		lines:    lines,
		hash:     hashLines(lines),
	}, nil
}

func (d *Document) validate(e model.Edit) error {
	reject := func(reason string) error {
		return &model.InvalidEditError{Edit: e, Reason: reason}
	}
	if e.StartLine < 1 || e.StartLine > len(d.lines) {
		return reject("start line out of range")
	}
	if e.EndLine < e.StartLine || e.EndLine > len(d.lines) {
		return reject("end line out of range")
	}
	if e.StartCol < 0 || e.StartCol > len(d.lines[e.StartLine-1]) {
		return reject("start column out of range")
	}
	if e.EndCol < 0 || e.EndCol > len(d.lines[e.EndLine-1]) {
		return reject("end column out of range")
	}
	if e.StartLine == e.EndLine && e.EndCol < e.StartCol {
		return reject("end before start")
	}
	return nil
}

func applyOne(lines []string, e model.Edit) []string {
	prefix := lines[e.StartLine-1][:e.StartCol]
	suffix := lines[e.EndLine-1][e.EndCol:]
	replaced := splitLines(prefix + normalizeNewlines(e.NewText) + suffix)

	out := make([]string, 0, len(lines)-(e.EndLine-e.StartLine+1)+len(replaced))
	out = append(out, lines[:e.StartLine-1]...)
	out = append(out, replaced...)
	out = append(out, lines[e.EndLine:]...)
	return out
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// LineDelta returns the net change in line count a batch of edits
// causes. Used to shift cached ranges that lie entirely after the
// edited region.
func LineDelta(edits []model.Edit) int {
	delta := 0
	for _, e := range edits {
		delta += strings.Count(e.NewText, "\n") - (e.EndLine - e.StartLine)
	}
	return delta
}

// EditedRange returns the smallest [start, end] line range touched by
// the batch in pre-edit coordinates, or (0, 0) for an empty batch.
func EditedRange(edits []model.Edit) (int, int) {
	if len(edits) == 0 {
		return 0, 0
	}
	start, end := edits[0].StartLine, edits[0].EndLine
	for _, e := range edits[1:] {
		if e.StartLine < start {
			start = e.StartLine
		}
		if e.EndLine > end {
			end = e.EndLine
		}
	}
	return start, end
}
