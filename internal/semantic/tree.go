package semantic

// Node is a syntax tree node. Lines are 0-indexed and inclusive; bytes are
// half-open offsets into the tree's source.
type Node interface {
	Kind() string
	// IsNamed is false for anonymous tokens such as punctuation and keywords.
	IsNamed() bool
	StartLine() int
	EndLine() int
	StartByte() int
	EndByte() int
	// ChildByField returns nil when the node has no child under name.
	ChildByField(name string) Node
	Children() []Node
	// PrevSibling returns nil for the first child.
	PrevSibling() Node
	HasError() bool
}

// Tree is a parsed source file.
type Tree struct {
	Root     Node
	Source   []byte
	Language Language

	release func()
}

// Text returns the source covered by n.
func (t *Tree) Text(n Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start < 0 {
		start = 0
	}
	if end > len(t.Source) {
		end = len(t.Source)
	}
	if start >= end {
		return ""
	}
	return string(t.Source[start:end])
}

// Close releases parser resources held by the tree. The tree must not be
// used afterwards.
func (t *Tree) Close() {
	if t.release != nil {
		t.release()
		t.release = nil
	}
}

// MemNode is an in-memory Node. Backends that do not own native trees build
// these, and tests use them to describe tree shapes directly.
type MemNode struct {
	Type     string
	Anon     bool
	Field    string // field name under the parent
	Start    int
	End      int
	From     int
	To       int
	Error    bool
	Kids     []*MemNode
	previous *MemNode
}

// NewMemNode returns a named node spanning lines start..end and links kids
// to it.
func NewMemNode(kind string, start, end int, kids ...*MemNode) *MemNode {
	n := &MemNode{Type: kind, Start: start, End: end, Kids: kids}
	n.link()
	return n
}

// WithField sets the field name under which n appears in its parent.
func (n *MemNode) WithField(name string) *MemNode {
	n.Field = name
	return n
}

// WithBytes sets the byte span of n.
func (n *MemNode) WithBytes(from, to int) *MemNode {
	n.From, n.To = from, to
	return n
}

// Anonymous marks n as an unnamed token.
func (n *MemNode) Anonymous() *MemNode {
	n.Anon = true
	return n
}

func (n *MemNode) link() {
	var prev *MemNode
	for _, k := range n.Kids {
		k.previous = prev
		prev = k
	}
}

func (n *MemNode) Kind() string   { return n.Type }
func (n *MemNode) IsNamed() bool  { return !n.Anon }
func (n *MemNode) StartLine() int { return n.Start }
func (n *MemNode) EndLine() int   { return n.End }
func (n *MemNode) StartByte() int { return n.From }
func (n *MemNode) EndByte() int   { return n.To }

func (n *MemNode) ChildByField(name string) Node {
	for _, k := range n.Kids {
		if k.Field == name {
			return k
		}
	}
	return nil
}

func (n *MemNode) Children() []Node {
	out := make([]Node, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out
}

func (n *MemNode) PrevSibling() Node {
	if n.previous == nil {
		return nil
	}
	return n.previous
}

func (n *MemNode) HasError() bool {
	if n.Error {
		return true
	}
	for _, k := range n.Kids {
		if k.HasError() {
			return true
		}
	}
	return false
}
