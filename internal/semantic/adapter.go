package semantic

import (
	"strings"

	"github.com/sokinpui/pick.go/model"
)

// Container is a declaration extracted from a syntax tree. Lines are
// 0-indexed and inclusive in new-file coordinates.
type Container struct {
	Kind      model.ContainerKind
	Name      string
	StartLine int
	EndLine   int
	Members   []Member
}

// Member is a field, method or property of a Container.
type Member struct {
	Kind      model.MemberKind
	Name      string
	StartLine int
	EndLine   int
}

// Adapter extracts containers from a tree in source order.
type Adapter func(t *Tree) []Container

var adapters = map[Language]Adapter{
	LangRust:     extractRust,
	LangPython:   extractPython,
	LangJava:     extractJava,
	LangKotlin:   extractKotlin,
	LangHCL:      extractHCL,
	LangMarkdown: extractMarkdown,
	LangYAML:     extractYAML,
	LangGo:       extractGo,
}

// Extract runs the adapter registered for the tree's language.
func Extract(t *Tree) []Container {
	adapter, ok := adapters[t.Language]
	if !ok || t.Root == nil {
		return nil
	}
	return adapter(t)
}

func newContainer(t *Tree, n Node, kind model.ContainerKind, name string, outer ...Node) Container {
	start, end := span(t.Language, n, outer...)
	return Container{Kind: kind, Name: name, StartLine: start, EndLine: end}
}

func newMember(t *Tree, n Node, kind model.MemberKind, name string) Member {
	start, end := span(t.Language, n)
	return Member{Kind: kind, Name: name, StartLine: start, EndLine: end}
}

// fieldText returns the trimmed text of n's child under field.
func fieldText(t *Tree, n Node, field string) (string, bool) {
	child := n.ChildByField(field)
	if child == nil {
		return "", false
	}
	text := strings.TrimSpace(t.Text(child))
	return text, text != ""
}

// childOfKind returns the first direct child of n with one of kinds.
func childOfKind(n Node, kinds ...string) Node {
	for _, c := range n.Children() {
		for _, k := range kinds {
			if c.Kind() == k {
				return c
			}
		}
	}
	return nil
}

// childrenOfKind returns every direct child of n with one of kinds.
func childrenOfKind(n Node, kinds ...string) []Node {
	var out []Node
	for _, c := range n.Children() {
		for _, k := range kinds {
			if c.Kind() == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// nameOf prefers the "name" field and falls back to the first child of one
// of kinds.
func nameOf(t *Tree, n Node, kinds ...string) (string, bool) {
	if name, ok := fieldText(t, n, "name"); ok {
		return name, true
	}
	if child := childOfKind(n, kinds...); child != nil {
		text := strings.TrimSpace(t.Text(child))
		return text, text != ""
	}
	return "", false
}

// collapseSpace joins whitespace runs so multi-line names display on one line.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
