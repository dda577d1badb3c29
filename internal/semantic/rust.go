package semantic

import "github.com/sokinpui/pick.go/model"

func extractRust(t *Tree) []Container {
	var out []Container
	for _, n := range t.Root.Children() {
		out = append(out, rustItem(t, n, true)...)
	}
	return out
}

// rustItem extracts n. Module bodies are descended once so that the
// functions inside a mod, such as a tests module, are selectable one by one.
func rustItem(t *Tree, n Node, top bool) []Container {
	switch n.Kind() {
	case "function_item":
		name, ok := fieldText(t, n, "name")
		if !ok {
			return nil
		}
		return []Container{newContainer(t, n, model.Function(), name)}

	case "struct_item":
		name, ok := fieldText(t, n, "name")
		if !ok {
			return nil
		}
		c := newContainer(t, n, model.Struct(), name)
		if body := n.ChildByField("body"); body != nil && body.Kind() == "field_declaration_list" {
			for _, f := range childrenOfKind(body, "field_declaration") {
				if fname, ok := fieldText(t, f, "name"); ok {
					c.Members = append(c.Members, newMember(t, f, model.MemberField, fname))
				}
			}
		}
		return []Container{c}

	case "enum_item":
		name, ok := fieldText(t, n, "name")
		if !ok {
			return nil
		}
		c := newContainer(t, n, model.Enum(), name)
		if body := n.ChildByField("body"); body != nil {
			for _, v := range childrenOfKind(body, "enum_variant") {
				if vname, ok := fieldText(t, v, "name"); ok {
					c.Members = append(c.Members, newMember(t, v, model.MemberField, vname))
				}
			}
		}
		return []Container{c}

	case "impl_item":
		typeName, ok := fieldText(t, n, "type")
		if !ok {
			return nil
		}
		trait, _ := fieldText(t, n, "trait")
		c := newContainer(t, n, model.Impl(trait), collapseSpace(typeName))
		c.Members = rustMethods(t, n.ChildByField("body"))
		return []Container{c}

	case "trait_item":
		name, ok := fieldText(t, n, "name")
		if !ok {
			return nil
		}
		c := newContainer(t, n, model.Interface(), name)
		c.Members = rustMethods(t, n.ChildByField("body"))
		return []Container{c}

	case "mod_item":
		name, ok := fieldText(t, n, "name")
		if !ok {
			return nil
		}
		out := []Container{newContainer(t, n, model.Module(), name)}
		body := n.ChildByField("body")
		if !top || body == nil {
			return out
		}
		for _, child := range childrenOfKind(body, "function_item") {
			out = append(out, rustItem(t, child, false)...)
		}
		return out
	}
	return nil
}

func rustMethods(t *Tree, body Node) []Member {
	if body == nil {
		return nil
	}
	var out []Member
	for _, f := range childrenOfKind(body, "function_item", "function_signature_item") {
		if name, ok := fieldText(t, f, "name"); ok {
			out = append(out, newMember(t, f, model.MemberMethod, name))
		}
	}
	return out
}
