package semantic

import (
	"strings"

	"github.com/sokinpui/pick.go/model"
)

// extractMarkdown turns each heading into a section that runs until the line
// before the next heading, or to the end of the document.
func extractMarkdown(t *Tree) []Container {
	type heading struct {
		level int
		name  string
		node  Node
	}
	var headings []heading
	for _, n := range t.Root.Children() {
		level, name, ok := markdownHeading(t, n)
		if !ok {
			continue
		}
		headings = append(headings, heading{level: level, name: name, node: n})
	}

	out := make([]Container, 0, len(headings))
	for i, h := range headings {
		c := newContainer(t, h.node, model.Heading(h.level), h.name)
		c.EndLine = t.Root.EndLine()
		if i+1 < len(headings) {
			c.EndLine = headings[i+1].node.StartLine() - 1
		}
		c.EndLine = max(c.EndLine, h.node.EndLine())
		out = append(out, c)
	}
	return out
}

func markdownHeading(t *Tree, n Node) (level int, name string, ok bool) {
	var text Node
	switch n.Kind() {
	case "atx_heading":
		for _, child := range n.Children() {
			if l, found := markerLevel(child.Kind(), "atx_h", "_marker"); found {
				level = l
			}
		}
		text = childOfKind(n, "inline")
	case "setext_heading":
		for _, child := range n.Children() {
			if l, found := markerLevel(child.Kind(), "setext_h", "_underline"); found {
				level = l
			}
		}
		if p := childOfKind(n, "paragraph"); p != nil {
			text = childOfKind(p, "inline")
		}
	default:
		return 0, "", false
	}
	if level == 0 || text == nil {
		return 0, "", false
	}
	name = strings.TrimSpace(t.Text(text))
	name = strings.TrimSpace(strings.TrimRight(name, "#"))
	name = collapseSpace(name)
	return level, name, name != ""
}

// markerLevel reads N from kinds such as atx_h2_marker.
func markerLevel(kind, prefix, suffix string) (int, bool) {
	if !strings.HasPrefix(kind, prefix) || !strings.HasSuffix(kind, suffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(kind, prefix), suffix)
	if len(digits) != 1 || digits[0] < '1' || digits[0] > '6' {
		return 0, false
	}
	return int(digits[0] - '0'), true
}
