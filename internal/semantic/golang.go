package semantic

import (
	"strings"

	"github.com/sokinpui/pick.go/model"
)

func extractGo(t *Tree) []Container {
	var out []Container
	for _, n := range t.Root.Children() {
		switch n.Kind() {
		case "function_declaration":
			if name, ok := fieldText(t, n, "name"); ok {
				out = append(out, newContainer(t, n, model.Function(), name))
			}
		case "method_declaration":
			name, ok := fieldText(t, n, "name")
			if !ok {
				continue
			}
			if recv := goReceiverType(t, n.ChildByField("receiver")); recv != "" {
				name = recv + "." + name
			}
			out = append(out, newContainer(t, n, model.Function(), name))
		case "type_declaration":
			out = append(out, goTypes(t, n)...)
		case "var_declaration", "const_declaration":
			out = append(out, goValues(t, n)...)
		}
	}
	return out
}

// goTypes extracts struct and interface specs. A lone spec spans its whole
// declaration so the leading "type" keyword and doc comment belong to it.
func goTypes(t *Tree, decl Node) []Container {
	specs := childrenOfKind(decl, "type_spec")
	var out []Container
	for _, spec := range specs {
		name, ok := fieldText(t, spec, "name")
		if !ok {
			continue
		}
		typ := spec.ChildByField("type")
		if typ == nil {
			continue
		}
		at := spec
		if len(specs) == 1 {
			at = decl
		}

		switch typ.Kind() {
		case "struct_type":
			c := newContainer(t, at, model.Struct(), name)
			if fields := childOfKind(typ, "field_declaration_list"); fields != nil {
				for _, f := range childrenOfKind(fields, "field_declaration") {
					if fname := goFieldName(t, f); fname != "" {
						c.Members = append(c.Members, newMember(t, f, model.MemberField, fname))
					}
				}
			}
			out = append(out, c)
		case "interface_type":
			c := newContainer(t, at, model.Interface(), name)
			for _, m := range childrenOfKind(typ, "method_elem", "method_spec") {
				if mname, ok := fieldText(t, m, "name"); ok {
					c.Members = append(c.Members, newMember(t, m, model.MemberMethod, mname))
				}
			}
			out = append(out, c)
		}
	}
	return out
}

// goFieldName names a field by its identifiers, or by its type when the field
// is embedded.
func goFieldName(t *Tree, f Node) string {
	var names []string
	for _, c := range f.Children() {
		if c.Kind() == "field_identifier" {
			names = append(names, t.Text(c))
		}
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}
	typeName, _ := fieldText(t, f, "type")
	return strings.TrimPrefix(typeName, "*")
}

func goValues(t *Tree, decl Node) []Container {
	specs := childrenOfKind(decl, "var_spec", "const_spec")
	for _, list := range childrenOfKind(decl, "var_spec_list") {
		specs = append(specs, childrenOfKind(list, "var_spec")...)
	}

	var out []Container
	for _, spec := range specs {
		name, ok := fieldText(t, spec, "name")
		if !ok {
			continue
		}
		at := spec
		if len(specs) == 1 {
			at = decl
		}
		out = append(out, newContainer(t, at, model.Variable(), name))
	}
	return out
}

// goReceiverType returns the base type name of a method receiver, without
// pointer or type parameters.
func goReceiverType(t *Tree, params Node) string {
	if params == nil {
		return ""
	}
	param := childOfKind(params, "parameter_declaration")
	if param == nil {
		return ""
	}
	typ, ok := fieldText(t, param, "type")
	if !ok {
		return ""
	}
	typ = strings.TrimLeft(typ, "*")
	if i := strings.IndexByte(typ, '['); i >= 0 {
		typ = typ[:i]
	}
	return strings.TrimSpace(typ)
}
