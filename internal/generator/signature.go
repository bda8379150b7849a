package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/decorgen/internal/models"
)

// scalarTypes were added as parameter types in PHP 7.0
var scalarTypes = map[string]bool{
	"int":    true,
	"float":  true,
	"string": true,
	"bool":   true,
}

// signatureExtractor turns introspected parameters into declaration tokens
type signatureExtractor struct {
	level    languageLevel
	method   string
	warnings []models.Warning
}

// ExtractParameter reconstructs a single parameter with no language level gating
func ExtractParameter(p models.Parameter) models.ParameterDescriptor {
	e := &signatureExtractor{}
	return e.parameter(p)
}

func (e *signatureExtractor) warn(param, format string, args ...interface{}) {
	e.warnings = append(e.warnings, models.Warning{
		Method:    e.method,
		Parameter: param,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (e *signatureExtractor) parameter(p models.Parameter) models.ParameterDescriptor {
	d := models.ParameterDescriptor{
		Name:     p.Name,
		Variadic: p.Variadic,
		ByRef:    p.ByRef,
	}
	d.Type = e.parameterType(p)
	if !p.Variadic {
		d.Default = e.defaultToken(p)
	}
	return d
}

// parameterType selects the type token: class short name, else the builtin
// or compound text as written, else nothing
func (e *signatureExtractor) parameterType(p models.Parameter) string {
	t := p.Type
	if t == nil {
		return ""
	}

	if t.Nullable && !e.level.atLeast("7.1") {
		e.warn(p.Name, "nullable type %s dropped for PHP %s", t.Text, e.level)
		return ""
	}

	switch t.Kind {
	case models.TypeClass:
		name := models.ShortName(t.Class)
		if t.Nullable {
			return "?" + name
		}
		return name
	case models.TypeCompound:
		if !e.level.atLeast("8.0") {
			e.warn(p.Name, "compound type %s dropped for PHP %s", t.Text, e.level)
			return ""
		}
		return t.Text
	default:
		base := strings.ToLower(strings.TrimPrefix(t.Text, "?"))
		if scalarTypes[base] && !e.level.atLeast("7.0") {
			return ""
		}
		return t.Text
	}
}

func (e *signatureExtractor) defaultToken(p models.Parameter) string {
	d := p.Default
	if d == nil {
		return ""
	}

	switch d.Kind {
	case models.DefaultConstant:
		return `\` + d.Constant
	case models.DefaultInt:
		return strconv.FormatInt(d.Int, 10)
	case models.DefaultString:
		if strings.ContainsAny(d.String, `'\`) {
			e.warn(p.Name, "string default emitted without escaping")
		}
		return "'" + d.String + "'"
	case models.DefaultArray:
		if raw := strings.ReplaceAll(d.Raw, " ", ""); raw != "" && raw != "[]" && !strings.EqualFold(raw, "array()") {
			e.warn(p.Name, "array default %s emitted as []", d.Raw)
		}
		return "[]"
	default:
		e.warn(p.Name, "%s default %s omitted, the parameter becomes required", d.Kind, rawOrKind(d))
		return ""
	}
}

func rawOrKind(d *models.DefaultValue) string {
	if d.Raw != "" {
		return d.Raw
	}
	return d.Kind.String()
}

// returnType renders the return annotation. Classes are fully qualified so
// they resolve from the generated namespace.
func (e *signatureExtractor) returnType(t *models.TypeHint) string {
	if t == nil {
		return ""
	}
	if !e.level.atLeast("7.0") {
		e.warn("", "return type %s dropped for PHP %s", t.Text, e.level)
		return ""
	}
	if !e.level.atLeast("7.1") && (t.Nullable || strings.EqualFold(t.Text, "void")) {
		e.warn("", "return type %s dropped for PHP %s", t.Text, e.level)
		return ""
	}

	switch t.Kind {
	case models.TypeClass:
		name := `\` + t.Class
		if t.Nullable {
			return "?" + name
		}
		return name
	case models.TypeCompound:
		if !e.level.atLeast("8.0") {
			e.warn("", "return type %s dropped for PHP %s", t.Text, e.level)
			return ""
		}
		return t.Text
	default:
		return t.Text
	}
}
