package syntax

import "strings"

// buildIndent derives structure for indentation languages: a
// declaration's suite is every following line indented deeper than the
// declaration, with blanks and docstrings riding along.
func buildIndent(lines []string, scan *lineScan, patterns []declPattern) []*Node {
	var nodes []*Node

	for n := 1; n <= len(lines); n++ {
		info := scan.info[n]
		if !info.HasCode {
			continue
		}
		p := matchDecl(patterns, lines[n-1], nil)
		if p == nil {
			continue
		}

		node := &Node{Type: p.nodeType, Start: n}
		node.SigEnd = indentSigEnd(lines, scan, n)
		node.End = suiteEnd(scan, node.SigEnd, info.Indent, len(lines))
		if node.End > node.SigEnd {
			node.BodyStart = node.SigEnd + 1
			node.BodyEnd = node.End
		}
		nodes = append(nodes, node)
	}

	return nodes
}

// indentSigEnd finds the line closing the declaration header: the
// first line at the declaration's bracket depth whose content ends
// with a colon. A header that never closes within the window degrades
// to the declaration line itself.
func indentSigEnd(lines []string, scan *lineScan, start int) int {
	base := scan.info[start-1].BracketDepthEnd
	const window = 20
	for n := start; n <= len(lines) && n < start+window; n++ {
		if scan.info[n].BracketDepthEnd != base {
			continue
		}
		if strings.HasSuffix(stripHashComment(lines[n-1]), ":") {
			return n
		}
	}
	return start
}

// suiteEnd returns the last non-blank line of the suite following
// sigEnd: every line indented deeper than declIndent, blanks included
// while deeper content follows.
func suiteEnd(scan *lineScan, sigEnd, declIndent, total int) int {
	end := sigEnd
	for n := sigEnd + 1; n <= total; n++ {
		info := scan.info[n]
		if info.Blank {
			continue
		}
		if info.Indent <= declIndent {
			break
		}
		end = n
	}
	return end
}

// stripHashComment removes a trailing # comment, ignoring hashes
// inside quotes.
func stripHashComment(line string) string {
	inSingle, inDouble := false, false
	for i, r := range line {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '#':
			if !inSingle && !inDouble {
				return strings.TrimSpace(line[:i])
			}
		}
	}
	return strings.TrimSpace(line)
}
