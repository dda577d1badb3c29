package semantic

import (
	"strings"

	"github.com/sokinpui/pick.go/model"
)

func extractHCL(t *Tree) []Container {
	body := t.Root
	if t.Root.Kind() == "config_file" {
		body = childOfKind(t.Root, "body")
	}
	if body == nil {
		return nil
	}

	var outer []Node
	if body != t.Root {
		outer = append(outer, body)
	}
	var out []Container
	for _, block := range childrenOfKind(body, "block") {
		if c, ok := hclBlock(t, block, outer...); ok {
			out = append(out, c)
		}
	}
	return out
}

// hclBlock maps a block type and its labels onto a container.
func hclBlock(t *Tree, block Node, outer ...Node) (Container, bool) {
	var blockType string
	var labels []string
	for i, child := range block.Children() {
		switch {
		case i == 0 && child.Kind() == "identifier":
			blockType = t.Text(child)
		case child.Kind() == "string_lit":
			labels = append(labels, strings.Trim(t.Text(child), `"`))
		case child.Kind() == "identifier":
			labels = append(labels, t.Text(child))
		}
	}

	label := func(i int) (string, bool) {
		if i < len(labels) && labels[i] != "" {
			return labels[i], true
		}
		return "", false
	}

	switch blockType {
	case "resource", "data":
		typeName, ok := label(0)
		if !ok {
			return Container{}, false
		}
		name, ok := label(1)
		if !ok {
			return Container{}, false
		}
		kind := model.Resource(typeName)
		if blockType == "data" {
			kind = model.DataSource(typeName)
		}
		return newContainer(t, block, kind, name, outer...), true
	case "variable", "output", "module":
		name, ok := label(0)
		if !ok {
			return Container{}, false
		}
		kind := model.Variable()
		switch blockType {
		case "output":
			kind = model.Output()
		case "module":
			kind = model.Module()
		}
		return newContainer(t, block, kind, name, outer...), true
	}
	return Container{}, false
}
