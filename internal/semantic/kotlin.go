package semantic

import "github.com/sokinpui/pick.go/model"

func extractKotlin(t *Tree) []Container {
	var out []Container
	for _, n := range t.Root.Children() {
		switch n.Kind() {
		case "class_declaration":
			name, ok := nameOf(t, n, "type_identifier", "simple_identifier")
			if !ok {
				continue
			}
			kind := model.Class()
			body := childOfKind(n, "class_body", "enum_class_body")
			switch {
			case childOfKind(n, "interface") != nil:
				kind = model.Interface()
			case body != nil && body.Kind() == "enum_class_body":
				kind = model.Enum()
			}
			c := newContainer(t, n, kind, name)
			c.Members = kotlinMembers(t, body)
			out = append(out, c)

		case "object_declaration":
			name, ok := nameOf(t, n, "type_identifier", "simple_identifier")
			if !ok {
				continue
			}
			c := newContainer(t, n, model.Object(), name)
			c.Members = kotlinMembers(t, childOfKind(n, "class_body"))
			out = append(out, c)

		case "function_declaration":
			if name, ok := nameOf(t, n, "simple_identifier"); ok {
				out = append(out, newContainer(t, n, model.Function(), name))
			}

		case "property_declaration":
			if name, ok := kotlinPropertyName(t, n); ok {
				out = append(out, newContainer(t, n, model.Variable(), name))
			}
		}
	}
	return out
}

func kotlinMembers(t *Tree, body Node) []Member {
	if body == nil {
		return nil
	}
	var out []Member
	for _, n := range body.Children() {
		switch n.Kind() {
		case "property_declaration":
			if name, ok := kotlinPropertyName(t, n); ok {
				out = append(out, newMember(t, n, model.MemberProperty, name))
			}
		case "function_declaration":
			if name, ok := nameOf(t, n, "simple_identifier"); ok {
				out = append(out, newMember(t, n, model.MemberMethod, name))
			}
		}
	}
	return out
}

// kotlinPropertyName reads property_declaration > variable_declaration >
// identifier.
func kotlinPropertyName(t *Tree, n Node) (string, bool) {
	decl := childOfKind(n, "variable_declaration")
	if decl == nil {
		return "", false
	}
	return nameOf(t, decl, "simple_identifier", "identifier")
}
