package semantic

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sokinpui/pick.go/internal/selection"
	"github.com/sokinpui/pick.go/internal/ui"
	"github.com/sokinpui/pick.go/model"
)

// DefaultTimeout bounds a single parse.
const DefaultTimeout = 2 * time.Second

var errNoContainers = errors.New("no container holds a change")

// Builder attaches semantic containers to files.
type Builder struct {
	Parser  Parser
	Timeout time.Duration
}

// NewBuilder returns a Builder using the default parsers and timeout.
func NewBuilder() *Builder {
	return &Builder{Parser: DefaultParser{}, Timeout: DefaultTimeout}
}

// TryAddSemanticContainers is Builder.Build with the default parsers.
func TryAddSemanticContainers(file model.File, oldSource, newSource string) model.File {
	return NewBuilder().Build(context.Background(), file, oldSource, newSource)
}

// Build returns file with Containers resolved against newSource, the new
// version of the file. Containers are located in new-file coordinates only,
// so oldSource does not affect the result. Whenever grouping is not possible
// the file comes back with Containers nil and the reason is logged at debug
// level; Build never fails.
func (b *Builder) Build(ctx context.Context, file model.File, oldSource, newSource string) (out model.File) {
	out = file
	out.Containers = nil

	defer func() {
		if r := recover(); r != nil {
			ui.Debug("semantic: %s: recovered from %v, using flat view", file.Path, r)
			out = file
			out.Containers = nil
		}
	}()

	containers, err := b.containers(ctx, file, newSource)
	if err != nil {
		ui.Debug("semantic: %s: %v, using flat view", file.Path, err)
		return out
	}
	out.Containers = containers
	selection.Refresh(&out)
	return out
}

func (b *Builder) containers(ctx context.Context, file model.File, newSource string) ([]model.SemanticContainer, error) {
	lang, ok := DetectLanguage(file.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, filepath.Ext(file.Path))
	}
	for _, s := range file.Sections {
		if s.Kind == model.SectionBinary {
			return nil, fmt.Errorf("%w: binary content", ErrUnsupportedLanguage)
		}
	}

	tree, err := b.parse(ctx, lang, []byte(newSource))
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	extracted := Extract(tree)
	ui.Debug("semantic: %s: %s adapter found %d container(s)", file.Path, lang.Name(), len(extracted))

	containers := Group(file.Sections, extracted)
	if len(containers) == 0 {
		return nil, errNoContainers
	}
	return containers, nil
}

func (b *Builder) parse(ctx context.Context, lang Language, source []byte) (*Tree, error) {
	parser := b.Parser
	if parser == nil {
		parser = DefaultParser{}
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}
	tree, err := parser.Parse(ctx, lang, source)
	if err != nil {
		return nil, err
	}
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("%w: %s: no tree", ErrParse, lang.Name())
	}
	tree.Language = lang
	return tree, nil
}

// Explain extracts the containers of both versions of a file without
// grouping sections.
func (b *Builder) Explain(ctx context.Context, path, oldSource, newSource string) (oldContainers, newContainers []Container, err error) {
	lang, ok := DetectLanguage(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, filepath.Ext(path))
	}
	parser := b.Parser
	if parser == nil {
		parser = DefaultParser{}
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	oldTree, newTree, err := ParseFileVersions(ctx, parser, lang, oldSource, newSource)
	if err != nil {
		return nil, nil, err
	}
	defer oldTree.Close()
	defer newTree.Close()

	return Extract(oldTree), Extract(newTree), nil
}

// Group assigns sections to extracted containers and drops every container
// and member left without an editable section. Containers without members
// own the sections overlapping their span; containers with members own
// nothing directly and survive through their members.
func Group(sections []model.Section, extracted []Container) []model.SemanticContainer {
	ranges := CalculateSectionLineRanges(sections)

	var out []model.SemanticContainer
	for _, c := range extracted {
		sc := model.SemanticContainer{
			Kind:      c.Kind,
			Name:      c.Name,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}

		if len(c.Members) == 0 {
			indices := FilterSectionIndicesByRange(ranges, c.StartLine, c.EndLine+1)
			if !anyEditable(sections, indices) {
				continue
			}
			sc.SectionIndices = indices
			out = append(out, sc)
			continue
		}

		for _, m := range c.Members {
			indices := FilterSectionIndicesByRange(ranges, m.StartLine, m.EndLine+1)
			if !anyEditable(sections, indices) {
				continue
			}
			sc.Members = append(sc.Members, model.SemanticMember{
				Kind:           m.Kind,
				Name:           m.Name,
				StartLine:      m.StartLine,
				EndLine:        m.EndLine,
				SectionIndices: indices,
			})
		}
		if len(sc.Members) > 0 {
			out = append(out, sc)
		}
	}
	return out
}

func anyEditable(sections []model.Section, indices []int) bool {
	for _, i := range indices {
		if sections[i].IsEditable() {
			return true
		}
	}
	return false
}
