package semantic

import "github.com/sokinpui/pick.go/model"

func extractPython(t *Tree) []Container {
	var out []Container
	for _, n := range t.Root.Children() {
		def := pythonDefinition(n)
		if def == nil {
			continue
		}
		name, ok := fieldText(t, def, "name")
		if !ok {
			continue
		}
		switch def.Kind() {
		case "function_definition":
			out = append(out, newContainer(t, n, model.Function(), name))
		case "class_definition":
			c := newContainer(t, n, model.Class(), name)
			c.Members = pythonMethods(t, def.ChildByField("body"))
			out = append(out, c)
		}
	}
	return out
}

// pythonDefinition unwraps a decorated_definition. The decorators stay part
// of the outer node's span.
func pythonDefinition(n Node) Node {
	switch n.Kind() {
	case "function_definition", "class_definition":
		return n
	case "decorated_definition":
		if def := n.ChildByField("definition"); def != nil {
			return def
		}
		return childOfKind(n, "function_definition", "class_definition")
	}
	return nil
}

func pythonMethods(t *Tree, body Node) []Member {
	if body == nil {
		return nil
	}
	var out []Member
	for _, n := range body.Children() {
		def := pythonDefinition(n)
		if def == nil || def.Kind() != "function_definition" {
			continue
		}
		if name, ok := fieldText(t, def, "name"); ok {
			out = append(out, newMember(t, n, model.MemberMethod, name))
		}
	}
	return out
}
