package syntax

import "strings"

// buildBrace derives structure for curly-brace languages by pairing
// the lexer's brace events. A pending declaration claims the next
// opening brace at its nesting level; every unclaimed brace pair
// becomes an anonymous block node.
func buildBrace(lines []string, scan *lineScan, patterns []declPattern) []*Node {
	type open struct {
		node     *Node
		openLine int
	}

	var nodes []*Node
	var stack []open
	var pending *Node

	// A declaration that never finds its brace within this many
	// lines is treated as a prototype or false match and dropped.
	const sigWindow = 12

	enclosing := func() *Node {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1].node
	}

	for n := 1; n <= len(lines); n++ {
		info := scan.info[n]

		if pending == nil && info.HasCode {
			if p := matchDecl(patterns, lines[n-1], enclosing()); p != nil {
				pending = &Node{Type: p.nodeType, Start: n}
			}
		}

		for _, ev := range scan.braces[n] {
			if ev == '{' {
				node := pending
				pending = nil
				if node == nil {
					node = &Node{Type: "block", Start: n}
				} else {
					node.SigEnd = sigEndLine(lines, node.Start, n)
				}
				stack = append(stack, open{node: node, openLine: n})
				continue
			}
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closeNode(top.node, top.openLine, n)
			nodes = append(nodes, top.node)
		}

		if pending != nil {
			// Prototypes and expression statements end in ';'
			// before any brace shows up.
			if strings.Contains(lines[n-1], ";") && scan.info[n].BracketDepthEnd == 0 {
				pending = nil
			} else if n-pending.Start >= sigWindow {
				pending = nil
			}
		}
	}

	// Unterminated constructs extend to end of file.
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		closeNode(top.node, top.openLine, len(lines))
		nodes = append(nodes, top.node)
	}

	return nodes
}

func closeNode(node *Node, openLine, closeLine int) {
	node.End = closeLine
	if closeLine > openLine+1 {
		node.BodyStart = openLine + 1
		node.BodyEnd = closeLine - 1
	}
}

// sigEndLine returns the last declaration-header line. When the brace
// sits alone on its line (Allman style), the header ends one line up.
func sigEndLine(lines []string, start, braceLine int) int {
	if braceLine > start && strings.TrimSpace(lines[braceLine-1]) == "{" {
		return braceLine - 1
	}
	return braceLine
}
