package semantic

import (
	"strings"

	"github.com/sokinpui/pick.go/model"
)

// extractYAML turns each top-level mapping key of every document into a
// level-1 section.
func extractYAML(t *Tree) []Container {
	var out []Container
	for _, doc := range yamlDocuments(t.Root) {
		node, mapping := yamlTopMapping(doc)
		if mapping == nil {
			continue
		}
		outer := []Node{mapping, node}
		if doc != t.Root {
			outer = append(outer, doc)
		}
		for _, pair := range childrenOfKind(mapping, "block_mapping_pair") {
			key := pair.ChildByField("key")
			if key == nil {
				continue
			}
			name := strings.Trim(strings.TrimSpace(t.Text(key)), `"'`)
			if name == "" {
				continue
			}
			out = append(out, newContainer(t, pair, model.Heading(1), name, outer...))
		}
	}
	return out
}

func yamlDocuments(root Node) []Node {
	if root.Kind() == "document" {
		return []Node{root}
	}
	return childrenOfKind(root, "document")
}

// yamlTopMapping descends document > block_node > block_mapping.
func yamlTopMapping(doc Node) (node, mapping Node) {
	node = childOfKind(doc, "block_node")
	if node == nil {
		return nil, nil
	}
	return node, childOfKind(node, "block_mapping")
}
