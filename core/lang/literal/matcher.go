package literal

// LiteralMatcher matches one of a fixed set of keyword strings by
// first-character dispatch: candidates are grouped by their leading byte
// and each group recursively builds a matcher for the remaining suffixes.
// Matching walks the input byte by byte along that structure with no
// backtracking, so shared prefixes cost O(total literal length) and the
// result is insensitive to the order candidates were supplied in. A
// matcher is built once and is safe for concurrent use.
type LiteralMatcher struct {
	root *litNode
}

type litNode struct {
	children map[byte]*litNode
	// terminal records that the empty string was a candidate at this
	// point, i.e. some candidate ends here.
	terminal bool
}

// OneOfLiteral builds a matcher for the given candidate keywords. An
// empty-string candidate makes the match succeed trivially when nothing
// else applies.
func OneOfLiteral(candidates ...string) *LiteralMatcher {
	root := &litNode{children: make(map[byte]*litNode)}
	for _, c := range candidates {
		node := root
		for i := 0; i < len(c); i++ {
			child, ok := node.children[c[i]]
			if !ok {
				child = &litNode{children: make(map[byte]*litNode)}
				node.children[c[i]] = child
			}
			node = child
		}
		node.terminal = true
	}
	return &LiteralMatcher{root: root}
}

// Match consumes the longest reachable candidate at the scanner's current
// position. When the next byte has no dispatch group, the match succeeds
// if a candidate ends at the current node and fails otherwise.
func (m *LiteralMatcher) Match(s *Scanner, what string) (string, error) {
	start := s.pos
	node := m.root
	for {
		child, ok := node.children[s.peek()]
		if !ok {
			if node.terminal {
				return s.input[start:s.pos], nil
			}
			s.pos = start
			return "", s.failf(start, "expected %s", what)
		}
		s.pos++
		node = child
	}
}
