package semantic

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/yaml"
)

var grammars = map[Language]func() *sitter.Language{
	LangRust:   rust.GetLanguage,
	LangKotlin: kotlin.GetLanguage,
	LangJava:   java.GetLanguage,
	LangHCL:    hcl.GetLanguage,
	LangPython: python.GetLanguage,
	LangYAML:   yaml.GetLanguage,
	LangGo:     golang.GetLanguage,
}

func parseTreeSitter(ctx context.Context, lang Language, source []byte) (*Tree, error) {
	grammarFn, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang.Name())
	}
	grammar := grammarFn()
	if grammar == nil {
		return nil, fmt.Errorf("%w: no grammar for %s", ErrParserSetup, lang.Name())
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, sitter.ErrOperationLimit) {
			return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, lang.Name(), err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, lang.Name(), err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: %s: parser returned no tree", ErrParse, lang.Name())
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("%w: %s: empty tree", ErrParse, lang.Name())
	}
	if root.HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w: %s", ErrSyntax, lang.Name())
	}

	return &Tree{
		Root:     wrapSitter(root),
		Source:   source,
		Language: lang,
		release:  tree.Close,
	}, nil
}

// sitterNode adapts a tree-sitter node to Node.
type sitterNode struct {
	n *sitter.Node
}

func wrapSitter(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return sitterNode{n: n}
}

func (s sitterNode) Kind() string   { return s.n.Type() }
func (s sitterNode) IsNamed() bool  { return s.n.IsNamed() }
func (s sitterNode) StartLine() int { return int(s.n.StartPoint().Row) }
func (s sitterNode) StartByte() int { return int(s.n.StartByte()) }
func (s sitterNode) EndByte() int   { return int(s.n.EndByte()) }
func (s sitterNode) HasError() bool { return s.n.HasError() }

// EndLine is the last line holding a byte of the node. A node that ends
// right after a newline reports the line that newline terminates.
func (s sitterNode) EndLine() int {
	start, end := s.n.StartPoint(), s.n.EndPoint()
	if end.Column == 0 && end.Row > start.Row {
		return int(end.Row) - 1
	}
	return int(end.Row)
}

func (s sitterNode) ChildByField(name string) Node {
	return wrapSitter(s.n.ChildByFieldName(name))
}

func (s sitterNode) Children() []Node {
	count := int(s.n.ChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if child := s.n.Child(i); child != nil {
			out = append(out, sitterNode{n: child})
		}
	}
	return out
}

func (s sitterNode) PrevSibling() Node {
	return wrapSitter(s.n.PrevSibling())
}
