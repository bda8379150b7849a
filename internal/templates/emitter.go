package templates

import (
	"bytes"
	"sort"
	"strings"
	"text/template"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/models"
)

const indent = "    "

// Emitter renders a GeneratedClass into PHP source by substituting
// placeholder fields into the registry's templates
type Emitter struct {
	parsed map[string]*template.Template
}

// NewEmitter parses every template of the registry
func NewEmitter(registry *TemplateRegistry) (*Emitter, error) {
	e := &Emitter{parsed: make(map[string]*template.Template)}
	for _, name := range []string{ClassTemplate, MethodTemplate, ConstructorTemplate} {
		text, ok := registry.Get(name)
		if !ok {
			return nil, errors.Newf(errors.TemplateErrorCode, "template '%s' is not registered", name)
		}
		tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, errors.WrapTemplateError(name, "parse", err)
		}
		e.parsed[name] = tmpl
	}
	return e, nil
}

// Render produces the full file content for a generated class
func (e *Emitter) Render(class *models.GeneratedClass) (string, error) {
	methods := make([]string, 0, len(class.Methods))
	for _, m := range class.Methods {
		name, fields := MethodTemplate, MethodFields(class, m)
		if m.IsConstructor() {
			name = ConstructorTemplate
		}
		text, err := e.execute(name, fields)
		if err != nil {
			return "", err
		}
		methods = append(methods, strings.TrimRight(text, "\n"))
	}

	fields := ClassFields(class)
	fields["body"] = strings.Join(methods, "\n\n")
	return e.execute(ClassTemplate, fields)
}

func (e *Emitter) execute(name string, fields map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := e.parsed[name].Execute(&buf, fields); err != nil {
		return "", errors.WrapTemplateError(name, "execute", err)
	}
	return buf.String(), nil
}

// ClassFields returns the class placeholders: marker, namespace, use, header,
// name, source and relation. body is filled in by Render.
func ClassFields(class *models.GeneratedClass) map[string]string {
	fields := map[string]string{
		"marker":   GeneratedMarker,
		"name":     class.Name,
		"source":   class.Source,
		"relation": class.Relation,
		"header":   "class " + class.Name + " " + class.Relation + " " + class.SourceName,
		"use":      useBlock(class.Imports),
	}
	if class.Namespace != "" {
		fields["namespace"] = "namespace " + class.Namespace + ";"
	}
	return fields
}

// MethodFields returns the method placeholders: comment, modifiers, name,
// parameters, return and forward
func MethodFields(class *models.GeneratedClass, m models.MethodDescriptor) map[string]string {
	return map[string]string{
		"comment":    formatDocComment(m.DocComment),
		"modifiers":  m.ModifierString(),
		"name":       m.Name,
		"parameters": m.ParameterList(),
		"return":     m.ReturnSuffix(),
		"forward":    forwardStatement(class, m),
	}
}

// forwardStatement calls the wrapped instance, or the source class for static methods
func forwardStatement(class *models.GeneratedClass, m models.MethodDescriptor) string {
	target := "$this->instance->"
	if m.IsStatic() {
		target = class.SourceName + "::"
	}
	call := target + m.Name + "(" + m.ArgumentList() + ");"

	switch strings.ToLower(m.ReturnType) {
	case "void", "never":
		return call
	}
	return "return " + call
}

// useBlock renders one use statement per import, the source type first
func useBlock(imports []string) string {
	if len(imports) == 0 {
		return ""
	}
	rest := append([]string(nil), imports[1:]...)
	sort.Strings(rest)

	lines := make([]string, 0, len(imports))
	for _, fqn := range append([]string{imports[0]}, rest...) {
		lines = append(lines, "use "+fqn+";")
	}
	return strings.Join(lines, "\n")
}

// formatDocComment moves a doc block to class member depth. The margin shared
// by its continuation lines is replaced, anything indented past it is kept.
func formatDocComment(doc string) string {
	doc = strings.TrimSpace(strings.ReplaceAll(doc, "\r\n", "\n"))
	if doc == "" {
		return ""
	}
	lines := strings.Split(doc, "\n")
	margin := commonMargin(lines[1:])
	for i, line := range lines {
		if i > 0 {
			if strings.TrimSpace(line) == "" {
				lines[i] = ""
				continue
			}
			line = strings.TrimPrefix(line, margin)
			if strings.HasPrefix(line, "*") {
				line = " " + line
			}
		}
		lines[i] = indent + strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// commonMargin returns the leading whitespace shared by every non blank line
func commonMargin(lines []string) string {
	margin, seen := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !seen {
			margin, seen = lead, true
			continue
		}
		n := 0
		for n < len(margin) && n < len(lead) && margin[n] == lead[n] {
			n++
		}
		margin = margin[:n]
	}
	return margin
}
