package semantic

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown builds a tree of top-level Markdown blocks. Headings take
// the shapes "atx_heading" (an atx_hN_marker and an inline) and
// "setext_heading" (a paragraph holding an inline, then a setext_hN_underline).
func parseMarkdown(ctx context.Context, source []byte) (*Tree, error) {
	lines := newLineIndex(source)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: Markdown: %v", ErrTimeout, err)
	}

	root := &MemNode{Type: "document", Start: 0, End: lines.last(), From: 0, To: len(source)}
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if n := lines.block(child, source); n != nil {
			root.Kids = append(root.Kids, n)
		}
	}
	root.link()

	return &Tree{Root: root, Source: source, Language: LangMarkdown}, nil
}

type lineIndex struct {
	starts []int
	size   int
}

func newLineIndex(source []byte) lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{starts: starts, size: len(source)}
}

func (l lineIndex) last() int {
	return len(l.starts) - 1
}

// line returns the line holding byte offset off.
func (l lineIndex) line(off int) int {
	return sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > off }) - 1
}

// bounds returns the byte span of line, without its terminator.
func (l lineIndex) bounds(line int) (int, int) {
	start := l.starts[line]
	end := l.size
	if line+1 < len(l.starts) {
		end = l.starts[line+1] - 1
	}
	return start, end
}

func (l lineIndex) block(n ast.Node, source []byte) *MemNode {
	if h, ok := n.(*ast.Heading); ok {
		return l.heading(h, source)
	}
	from, to, ok := blockBytes(n)
	if !ok {
		return nil
	}
	return &MemNode{
		Type:  snakeCase(n.Kind().String()),
		Start: l.line(from),
		End:   l.line(max(from, to-1)),
		From:  from,
		To:    to,
	}
}

func (l lineIndex) heading(h *ast.Heading, source []byte) *MemNode {
	segments := h.Lines()
	if segments.Len() == 0 {
		return nil
	}
	first, last := segments.At(0), segments.At(segments.Len()-1)
	startLine := l.line(first.Start)
	textEnd := l.line(max(first.Start, last.Stop-1))
	lineStart, lineEnd := l.bounds(startLine)

	inline := &MemNode{Type: "inline", Start: startLine, End: textEnd, From: first.Start, To: last.Stop}

	if isATXLine(source[lineStart:lineEnd]) {
		marker := &MemNode{
			Type:  fmt.Sprintf("atx_h%d_marker", h.Level),
			Start: startLine,
			End:   startLine,
			From:  lineStart,
			To:    first.Start,
		}
		return NewMemNode("atx_heading", startLine, startLine, marker, inline).WithBytes(lineStart, lineEnd)
	}

	underlineLine := min(textEnd+1, l.last())
	underlineStart, underlineEnd := l.bounds(underlineLine)
	paragraph := NewMemNode("paragraph", startLine, textEnd, inline).WithBytes(first.Start, last.Stop)
	underline := (&MemNode{
		Type:  fmt.Sprintf("setext_h%d_underline", h.Level),
		Start: underlineLine,
		End:   underlineLine,
	}).WithBytes(underlineStart, underlineEnd)
	return NewMemNode("setext_heading", startLine, underlineLine, paragraph, underline).WithBytes(lineStart, underlineEnd)
}

// blockBytes returns the byte span covered by the lines of n and its block
// descendants.
func blockBytes(n ast.Node) (from, to int, ok bool) {
	if n.Type() != ast.TypeBlock {
		return 0, 0, false
	}
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		if !ok || seg.Start < from {
			from = seg.Start
		}
		if !ok || seg.Stop > to {
			to = seg.Stop
		}
		ok = true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cf, ct, cok := blockBytes(c)
		if !cok {
			continue
		}
		if !ok || cf < from {
			from = cf
		}
		if !ok || ct > to {
			to = ct
		}
		ok = true
	}
	return from, to, ok
}

func isATXLine(line []byte) bool {
	s := string(line)
	trimmed := strings.TrimLeft(s, " ")
	if len(s)-len(trimmed) > 3 {
		return false
	}
	hashes := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
	if hashes < 1 || hashes > 6 {
		return false
	}
	return len(trimmed) == hashes || trimmed[hashes] == ' ' || trimmed[hashes] == '\t'
}

// snakeCase turns a goldmark kind name such as "FencedCodeBlock" into
// "fenced_code_block".
func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
