package semantic

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrParserSetup         = errors.New("parser setup failed")
	ErrParse               = errors.New("parse failed")
	ErrSyntax              = errors.New("source has syntax errors")
	ErrTimeout             = errors.New("parse timed out")
)

// Parser turns source text into a syntax tree. A failed parse returns an
// error wrapping one of the Err* sentinels.
type Parser interface {
	Parse(ctx context.Context, lang Language, source []byte) (*Tree, error)
}

// DefaultParser parses Markdown with goldmark and every other supported
// language with tree-sitter.
type DefaultParser struct{}

func (DefaultParser) Parse(ctx context.Context, lang Language, source []byte) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if lang == LangMarkdown {
		return parseMarkdown(ctx, source)
	}
	return parseTreeSitter(ctx, lang, source)
}

// ParseFileVersions parses the old and the new version of a file. Both trees
// must be closed by the caller.
func ParseFileVersions(ctx context.Context, parser Parser, lang Language, oldSource, newSource string) (oldTree, newTree *Tree, err error) {
	oldTree, err = parser.Parse(ctx, lang, []byte(oldSource))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse old version: %w", err)
	}
	newTree, err = parser.Parse(ctx, lang, []byte(newSource))
	if err != nil {
		oldTree.Close()
		return nil, nil, fmt.Errorf("failed to parse new version: %w", err)
	}
	return oldTree, newTree, nil
}
