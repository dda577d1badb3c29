package semantic

import "github.com/sokinpui/pick.go/model"

func extractJava(t *Tree) []Container {
	var out []Container
	for _, n := range t.Root.Children() {
		var kind model.ContainerKind
		switch n.Kind() {
		case "class_declaration", "record_declaration":
			kind = model.Class()
		case "interface_declaration":
			kind = model.Interface()
		case "enum_declaration":
			kind = model.Enum()
		default:
			continue
		}
		name, ok := fieldText(t, n, "name")
		if !ok {
			continue
		}
		c := newContainer(t, n, kind, name)
		c.Members = javaMembers(t, n.ChildByField("body"))
		out = append(out, c)
	}
	return out
}

func javaMembers(t *Tree, body Node) []Member {
	if body == nil {
		return nil
	}
	var out []Member
	for _, n := range body.Children() {
		switch n.Kind() {
		case "field_declaration", "constant_declaration":
			declarator := n.ChildByField("declarator")
			if declarator == nil {
				declarator = childOfKind(n, "variable_declarator")
			}
			if declarator == nil {
				continue
			}
			if name, ok := fieldText(t, declarator, "name"); ok {
				out = append(out, newMember(t, n, model.MemberField, name))
			}
		case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
			if name, ok := fieldText(t, n, "name"); ok {
				out = append(out, newMember(t, n, model.MemberMethod, name))
			}
		case "enum_body_declarations":
			out = append(out, javaMembers(t, n)...)
		}
	}
	return out
}
