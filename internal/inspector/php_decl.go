package inspector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/phpexpr"
)

// typeNodes are the grammar nodes a parameter or return type can be written as
var typeNodes = map[string]bool{
	"named_type":                   true,
	"optional_type":                true,
	"primitive_type":               true,
	"union_type":                   true,
	"intersection_type":            true,
	"disjunctive_normal_form_type": true,
	"bottom_type":                  true,
	"type_list":                    true,
}

func (f *phpFile) buildType(d *declaration) *models.SourceType {
	n := d.node
	t := &models.SourceType{
		Name: d.fqn,
		Kind: d.kind,
		File: f.name,
		Line: int(n.StartPoint().Row) + 1,
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "abstract_modifier":
			t.IsAbstract = true
		case "final_modifier":
			t.IsFinal = true
		case "base_clause":
			names := f.classNames(child, d.resolver)
			if t.Kind == models.KindInterface {
				t.Interfaces = append(t.Interfaces, names...)
			} else if len(names) > 0 {
				t.Parent = names[0]
			}
		case "class_interface_clause":
			t.Interfaces = append(t.Interfaces, f.classNames(child, d.resolver)...)
		}
	}
	if t.Kind == models.KindEnum {
		t.IsFinal = true
	}

	scoped := d.resolver.WithClass(t.Name, t.Parent)
	body := n.ChildByFieldName("body")
	if body == nil {
		return t
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "use_declaration":
			t.Traits = append(t.Traits, f.classNames(member, d.resolver)...)
		case "method_declaration":
			if m, ok := f.buildMethod(t, member, scoped); ok {
				t.Methods = append(t.Methods, m)
			}
		}
	}
	return t
}

// classNames resolves the class names listed directly under an extends,
// implements or trait use node
func (f *phpFile) classNames(n *sitter.Node, r *phpexpr.NameResolver) []string {
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "name", "qualified_name":
			names = append(names, r.ResolveClass(f.text(child)))
		}
	}
	return names
}

func (f *phpFile) buildMethod(owner *models.SourceType, n *sitter.Node, r *phpexpr.NameResolver) (models.Method, bool) {
	name := f.text(n.ChildByFieldName("name"))
	if name == "" {
		return models.Method{}, false
	}

	m := models.Method{
		Name:           name,
		DeclaringClass: owner.Name,
		DocComment:     f.docComment(n),
		Line:           int(n.StartPoint().Row) + 1,
	}

	var mods []models.Modifier
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "function" {
			break
		}
		if child.Type() == "attribute_list" {
			continue
		}
		for _, word := range strings.Fields(f.text(child)) {
			if mod, ok := models.ParseModifier(word); ok {
				mods = append(mods, mod)
			}
		}
	}
	m.Modifiers = models.NewModifierSet(mods...)
	if !m.Modifiers.HasVisibility() {
		m.Modifiers = m.Modifiers.With(models.ModPublic)
	}
	if owner.Kind == models.KindInterface {
		m.Modifiers = m.Modifiers.With(models.ModAbstract)
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			child := params.NamedChild(i)
			switch child.Type() {
			case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
				m.Parameters = append(m.Parameters, f.buildParameter(owner, name, child, r))
			}
		}
	}

	if ret := n.ChildByFieldName("return_type"); ret != nil {
		m.ReturnType = f.typeHint(owner, name, strings.TrimPrefix(strings.TrimSpace(f.text(ret)), ":"), r)
	}
	return m, true
}

func (f *phpFile) buildParameter(owner *models.SourceType, method string, n *sitter.Node, r *phpexpr.NameResolver) models.Parameter {
	p := models.Parameter{Variadic: n.Type() == "variadic_parameter"}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch {
		case child.Type() == "reference_modifier" || child.Type() == "&":
			p.ByRef = true
		case child.Type() == "...":
			p.Variadic = true
		}
	}

	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = firstNamedOfType(n, "variable_name")
	}
	rawName := strings.TrimSpace(f.text(nameNode))
	if strings.HasPrefix(rawName, "&") {
		p.ByRef = true
	}
	if strings.Contains(rawName, "...") {
		p.Variadic = true
	}
	p.Name = strings.TrimLeft(rawName, "&.$ \t")

	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); typeNodes[child.Type()] {
				typeNode = child
				break
			}
		}
	}
	if typeNode != nil {
		p.Type = f.typeHint(owner, method, f.text(typeNode), r)
	}

	if def := n.ChildByFieldName("default_value"); def != nil {
		raw := strings.TrimSpace(f.text(def))
		value, err := phpexpr.ParseDefault(raw, r)
		if err != nil {
			f.logger.Debug().
				Err(err).
				Str("type", owner.Name).
				Str("method", method).
				Str("parameter", p.Name).
				Msg("default value kept as expression")
			value = &models.DefaultValue{Kind: models.DefaultExpression, Raw: raw}
		}
		p.Default = value
	}
	return p
}

// typeHint classifies a declared type; text the grammar rejects is kept as written
func (f *phpFile) typeHint(owner *models.SourceType, method, text string, r *phpexpr.NameResolver) *models.TypeHint {
	hint, err := phpexpr.ParseType(text, r)
	if err != nil {
		f.logger.Debug().
			Err(err).
			Str("type", owner.Name).
			Str("method", method).
			Msg("type kept as written")
		return &models.TypeHint{Text: strings.TrimSpace(text), Kind: models.TypeCompound}
	}
	return hint
}

// docComment returns the /** */ block directly preceding a method
func (f *phpFile) docComment(n *sitter.Node) string {
	prev := n.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := f.text(prev)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	// the comment must end on the line before the method or on the same line
	if n.StartPoint().Row-prev.EndPoint().Row > 1 {
		return ""
	}
	return text
}

func firstNamedOfType(n *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}
