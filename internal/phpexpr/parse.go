package phpexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/models"
)

// ParseType parses a declared type and classifies it. Empty text means no type.
func ParseType(text string, r *NameResolver) (*models.TypeHint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if r == nil {
		r = &NameResolver{}
	}

	parsed, err := typeParser.ParseString("", text)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("type '%s'", text), err)
	}

	hint := &models.TypeHint{
		Text:     renderType(parsed),
		Nullable: parsed.Nullable,
		Kind:     models.TypeCompound,
	}

	if len(parsed.Tail) == 0 && parsed.Head.Group == nil {
		name := parsed.Head.Name
		if IsBuiltinType(name) {
			hint.Kind = models.TypeBuiltin
		} else {
			hint.Kind = models.TypeClass
			hint.Class = r.ResolveClass(name)
		}
	}

	return hint, nil
}

func renderType(t *typeExpr) string {
	var b strings.Builder
	if t.Nullable {
		b.WriteString("?")
	}
	b.WriteString(renderTerm(t.Head))
	for _, tail := range t.Tail {
		b.WriteString(tail.Op)
		b.WriteString(renderTerm(tail.Term))
	}
	return b.String()
}

func renderTerm(t *typeTerm) string {
	if t.Group != nil {
		return "(" + renderType(t.Group) + ")"
	}
	return t.Name
}

// ParseDefault parses a parameter default expression and classifies its value
func ParseDefault(text string, r *NameResolver) (*models.DefaultValue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if r == nil {
		r = &NameResolver{}
	}

	parsed, err := exprParser.ParseString("", text)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("default value '%s'", text), err)
	}

	value, err := classifyExpr(parsed, r)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("default value '%s'", text), err)
	}
	value.Raw = text
	return value, nil
}

func classifyExpr(e *expr, r *NameResolver) (*models.DefaultValue, error) {
	if len(e.Tail) > 0 {
		return &models.DefaultValue{Kind: models.DefaultExpression}, nil
	}
	return classifyOperand(e.Head, r)
}

func classifyOperand(o *operand, r *NameResolver) (*models.DefaultValue, error) {
	negative := o.Sign == "-"

	switch {
	case o.Group != nil:
		inner, err := classifyExpr(o.Group, r)
		if err != nil {
			return nil, err
		}
		if negative {
			return negate(inner), nil
		}
		return inner, nil

	case o.Array != nil:
		return &models.DefaultValue{Kind: models.DefaultArray}, nil

	case o.New != nil:
		return &models.DefaultValue{
			Kind:   models.DefaultObject,
			String: r.ResolveClass(o.New.Class),
		}, nil

	case o.Int != nil:
		digits := strings.ReplaceAll(*o.Int, "_", "")
		n, err := strconv.ParseInt(digits, 0, 64)
		if err != nil {
			// integer overflow becomes a float in PHP
			f, ferr := strconv.ParseFloat(digits, 64)
			if ferr != nil {
				f = math.Inf(1)
			}
			value := &models.DefaultValue{Kind: models.DefaultFloat, Float: f}
			if negative {
				value.Float = -value.Float
			}
			return value, nil
		}
		if negative {
			n = -n
		}
		return &models.DefaultValue{Kind: models.DefaultInt, Int: n}, nil

	case o.Float != nil:
		f, err := strconv.ParseFloat(strings.ReplaceAll(*o.Float, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %s: %w", *o.Float, err)
		}
		if negative {
			f = -f
		}
		return &models.DefaultValue{Kind: models.DefaultFloat, Float: f}, nil

	case o.String != nil:
		if o.Sign != "" {
			return &models.DefaultValue{Kind: models.DefaultExpression}, nil
		}
		return &models.DefaultValue{Kind: models.DefaultString, String: Unquote(*o.String)}, nil

	case o.Ref != nil:
		// a signed constant is evaluated at runtime, so it no longer names a constant
		if o.Sign != "" {
			return &models.DefaultValue{Kind: models.DefaultExpression}, nil
		}
		return classifyReference(o.Ref, r), nil
	}

	return nil, fmt.Errorf("empty expression")
}

func negate(v *models.DefaultValue) *models.DefaultValue {
	out := *v
	switch v.Kind {
	case models.DefaultInt:
		out.Int = -v.Int
	case models.DefaultFloat:
		out.Float = -v.Float
	default:
		out = models.DefaultValue{Kind: models.DefaultExpression}
	}
	return &out
}

func classifyReference(ref *reference, r *NameResolver) *models.DefaultValue {
	if ref.Member != "" {
		class := r.ResolveClass(ref.Name)
		if strings.EqualFold(ref.Member, "class") {
			return &models.DefaultValue{Kind: models.DefaultString, String: class}
		}
		constant := class + "::" + ref.Member
		if r.isEnum(class) {
			return &models.DefaultValue{Kind: models.DefaultEnum, Constant: constant}
		}
		return &models.DefaultValue{Kind: models.DefaultConstant, Constant: constant}
	}

	switch strings.ToLower(ref.Name) {
	case "true":
		return &models.DefaultValue{Kind: models.DefaultBool, Bool: true}
	case "false":
		return &models.DefaultValue{Kind: models.DefaultBool, Bool: false}
	case "null":
		return &models.DefaultValue{Kind: models.DefaultNull}
	}

	return &models.DefaultValue{Kind: models.DefaultConstant, Constant: r.ResolveConstant(ref.Name)}
}

// Unquote returns the value of a single or double quoted PHP string literal
func Unquote(literal string) string {
	if len(literal) < 2 {
		return literal
	}
	quote := literal[0]
	body := literal[1 : len(literal)-1]

	if quote == '\'' {
		var b strings.Builder
		for i := 0; i < len(body); i++ {
			if body[i] == '\\' && i+1 < len(body) && (body[i+1] == '\'' || body[i+1] == '\\') {
				i++
			}
			b.WriteByte(body[i])
		}
		return b.String()
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'v':
			b.WriteByte('\v')
		case 'f':
			b.WriteByte('\f')
		case 'e':
			b.WriteByte(0x1b)
		case '\\', '$', '"':
			b.WriteByte(body[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String()
}
