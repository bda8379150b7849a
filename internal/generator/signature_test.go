package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decorgen/internal/models"
)

func classHint(fqn string) *models.TypeHint {
	return &models.TypeHint{Text: models.ShortName(fqn), Kind: models.TypeClass, Class: fqn}
}

func builtinHint(text string) *models.TypeHint {
	return &models.TypeHint{Text: text, Kind: models.TypeBuiltin}
}

func TestExtractParameter(t *testing.T) {
	tests := []struct {
		name  string
		param models.Parameter
		want  string
	}{
		{
			name:  "class type uses the short name",
			param: models.Parameter{Name: "x", Type: classHint(`App\Foo`)},
			want:  "Foo $x",
		},
		{
			name:  "nullable class",
			param: models.Parameter{Name: "x", Type: &models.TypeHint{Text: "?Foo", Kind: models.TypeClass, Class: `App\Foo`, Nullable: true}},
			want:  "?Foo $x",
		},
		{
			name:  "builtin with int default",
			param: models.Parameter{Name: "x", Type: builtinHint("int"), Default: &models.DefaultValue{Kind: models.DefaultInt, Int: 5}},
			want:  "int $x = 5",
		},
		{
			name:  "negative int",
			param: models.Parameter{Name: "x", Default: &models.DefaultValue{Kind: models.DefaultInt, Int: -1}},
			want:  "$x = -1",
		},
		{
			name:  "untyped variadic",
			param: models.Parameter{Name: "args", Variadic: true},
			want:  "...$args",
		},
		{
			name:  "typed variadic",
			param: models.Parameter{Name: "xs", Type: builtinHint("int"), Variadic: true},
			want:  "int ...$xs",
		},
		{
			name:  "by reference",
			param: models.Parameter{Name: "out", Type: builtinHint("array"), ByRef: true},
			want:  "array &$out",
		},
		{
			name:  "global constant",
			param: models.Parameter{Name: "eol", Default: &models.DefaultValue{Kind: models.DefaultConstant, Constant: "PHP_EOL"}},
			want:  `$eol = \PHP_EOL`,
		},
		{
			name:  "class constant",
			param: models.Parameter{Name: "n", Default: &models.DefaultValue{Kind: models.DefaultConstant, Constant: `App\Foo::LIMIT`}},
			want:  `$n = \App\Foo::LIMIT`,
		},
		{
			name:  "string default",
			param: models.Parameter{Name: "s", Type: builtinHint("string"), Default: &models.DefaultValue{Kind: models.DefaultString, String: "app"}},
			want:  "string $s = 'app'",
		},
		{
			name:  "array default with content",
			param: models.Parameter{Name: "a", Type: builtinHint("array"), Default: &models.DefaultValue{Kind: models.DefaultArray, Raw: "[1, 2, 3]"}},
			want:  "array $a = []",
		},
		{
			name:  "float default is dropped",
			param: models.Parameter{Name: "r", Type: builtinHint("float"), Default: &models.DefaultValue{Kind: models.DefaultFloat, Float: 0.5}},
			want:  "float $r",
		},
		{
			name:  "null default is dropped",
			param: models.Parameter{Name: "d", Default: &models.DefaultValue{Kind: models.DefaultNull}},
			want:  "$d",
		},
		{
			name:  "compound type as written",
			param: models.Parameter{Name: "id", Type: &models.TypeHint{Text: "int|string", Kind: models.TypeCompound}},
			want:  "int|string $id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractParameter(tt.param).String())
		})
	}
}

func TestSignatureExtractor_Warnings(t *testing.T) {
	e := &signatureExtractor{method: "log"}

	e.parameter(models.Parameter{Name: "s", Default: &models.DefaultValue{Kind: models.DefaultString, String: `it's`}})
	e.parameter(models.Parameter{Name: "b", Default: &models.DefaultValue{Kind: models.DefaultBool, Bool: true, Raw: "true"}})
	e.parameter(models.Parameter{Name: "a", Default: &models.DefaultValue{Kind: models.DefaultArray, Raw: "[]"}})
	e.parameter(models.Parameter{Name: "l", Default: &models.DefaultValue{Kind: models.DefaultArray, Raw: "array('x')"}})

	require.Len(t, e.warnings, 3)
	assert.Equal(t, "log($s): string default emitted without escaping", e.warnings[0].String())
	assert.Equal(t, "log($b): bool default true omitted, the parameter becomes required", e.warnings[1].String())
	assert.Equal(t, "log($l): array default array('x') emitted as []", e.warnings[2].String())
}

func TestSignatureExtractor_LanguageLevel(t *testing.T) {
	tests := []struct {
		version string
		param   models.Parameter
		want    string
	}{
		{"5.6", models.Parameter{Name: "x", Type: builtinHint("int")}, "$x"},
		{"5.6", models.Parameter{Name: "x", Type: builtinHint("array")}, "array $x"},
		{"5.6", models.Parameter{Name: "x", Type: classHint(`App\Foo`)}, "Foo $x"},
		{"7.0", models.Parameter{Name: "x", Type: builtinHint("int")}, "int $x"},
		{"7.0", models.Parameter{Name: "x", Type: &models.TypeHint{Text: "?int", Kind: models.TypeBuiltin, Nullable: true}}, "$x"},
		{"7.4", models.Parameter{Name: "x", Type: &models.TypeHint{Text: "int|string", Kind: models.TypeCompound}}, "$x"},
		{"8.1", models.Parameter{Name: "x", Type: &models.TypeHint{Text: "int|string", Kind: models.TypeCompound}}, "int|string $x"},
	}

	for _, tt := range tests {
		t.Run(tt.version+" "+tt.want, func(t *testing.T) {
			level, err := parseLanguageLevel(tt.version)
			require.NoError(t, err)
			e := &signatureExtractor{level: level}
			assert.Equal(t, tt.want, e.parameter(tt.param).String())
		})
	}
}

func TestSignatureExtractor_ReturnType(t *testing.T) {
	tests := []struct {
		version string
		hint    *models.TypeHint
		want    string
	}{
		{"", nil, ""},
		{"", builtinHint("void"), "void"},
		{"", classHint(`App\Foo`), `\App\Foo`},
		{"", &models.TypeHint{Text: "?Foo", Kind: models.TypeClass, Class: `App\Foo`, Nullable: true}, `?\App\Foo`},
		{"5.6", builtinHint("string"), ""},
		{"7.0", builtinHint("void"), ""},
		{"7.0", builtinHint("string"), "string"},
		{"7.1", builtinHint("void"), "void"},
	}

	for _, tt := range tests {
		level, err := parseLanguageLevel(tt.version)
		require.NoError(t, err)
		e := &signatureExtractor{level: level}
		assert.Equal(t, tt.want, e.returnType(tt.hint), "version %q", tt.version)
	}
}

func TestParseLanguageLevel(t *testing.T) {
	level, err := parseLanguageLevel("v8.2")
	require.NoError(t, err)
	assert.True(t, level.atLeast("8.0"))
	assert.False(t, level.atLeast("8.3"))
	assert.Equal(t, "8.2", level.String())

	_, err = parseLanguageLevel("eight")
	assert.Error(t, err)

	zero, err := parseLanguageLevel("")
	require.NoError(t, err)
	assert.True(t, zero.atLeast("99.0"))
	assert.Equal(t, "latest", zero.String())
}
