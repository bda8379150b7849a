package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decorgen/internal/models"
)

func mods(m ...models.Modifier) models.ModifierSet {
	return models.NewModifierSet(m...)
}

// loggerSource is a class with a constructor, a public, a private and a final method
func loggerSource() *models.SourceType {
	return &models.SourceType{
		Name: `App\Log\Logger`,
		Kind: models.KindClass,
		Methods: []models.Method{
			{Name: "__construct", Modifiers: mods(models.ModPublic), Parameters: []models.Parameter{{Name: "channel", Type: builtinHint("string")}}},
			{Name: "log", Modifiers: mods(models.ModPublic), Parameters: []models.Parameter{{Name: "msg", Type: builtinHint("string")}}},
			{Name: "format", Modifiers: mods(models.ModPrivate)},
			{Name: "flush", Modifiers: mods(models.ModFinal, models.ModPublic)},
		},
	}
}

func TestReconstruct_LoggerScenario(t *testing.T) {
	class := Reconstruct(loggerSource(), `App\Decorators`)

	assert.Equal(t, "LoggerDecorator", class.Name)
	assert.Equal(t, models.RelationExtends, class.Relation)
	assert.Equal(t, `App\Decorators`, class.Namespace)
	assert.Equal(t, `App\Log\Logger`, class.Source)
	assert.Equal(t, []string{`App\Log\Logger`}, class.Imports)

	require.Len(t, class.Methods, 2)
	assert.Equal(t, "public function __construct(Logger $instance)", class.Methods[0].Signature())
	assert.Equal(t, "public function log(string $msg)", class.Methods[1].Signature())
	assert.Empty(t, class.Warnings)
}

func TestReconstruct_ConstructorAlwaysFirst(t *testing.T) {
	tests := []struct {
		name string
		src  *models.SourceType
	}{
		{"empty class", &models.SourceType{Name: "Thing"}},
		{"constructor declared last", &models.SourceType{Name: "Thing", Methods: []models.Method{
			{Name: "run", Modifiers: mods(models.ModPublic)},
			{Name: "__CONSTRUCT", Modifiers: mods(models.ModPublic)},
		}}},
		{"interface", &models.SourceType{Name: "Thing", Kind: models.KindInterface, Methods: []models.Method{
			{Name: "run", Modifiers: mods(models.ModAbstract, models.ModPublic)},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class := Reconstruct(tt.src, "")
			count := 0
			for _, m := range class.Methods {
				if m.IsConstructor() {
					count++
				}
			}
			assert.Equal(t, 1, count)
			assert.True(t, class.Methods[0].IsConstructor())
			assert.Equal(t, "Thing", class.Methods[0].Parameters[0].Type)
			assert.Equal(t, "instance", class.Methods[0].Parameters[0].Name)
		})
	}
}

func TestReconstruct_FiltersAndModifiers(t *testing.T) {
	src := &models.SourceType{
		Name:       `App\Repo`,
		Kind:       models.KindClass,
		IsAbstract: true,
		Methods: []models.Method{
			{Name: "find", Modifiers: mods(models.ModAbstract, models.ModProtected)},
			{Name: "create", Modifiers: mods(models.ModPublic, models.ModStatic)},
			{Name: "hidden", Modifiers: mods(models.ModPrivate, models.ModStatic)},
			{Name: "locked", Modifiers: mods(models.ModFinal, models.ModProtected)},
			{Name: "all", Modifiers: mods(models.ModAbstract, models.ModPublic, models.ModStatic)},
		},
	}

	class := Reconstruct(src, "")
	require.Len(t, class.Methods, 4)

	assert.Equal(t, "find", class.Methods[1].Name)
	assert.Equal(t, []models.Modifier{models.ModProtected}, class.Methods[1].Modifiers)
	assert.Equal(t, "public static", class.Methods[2].ModifierString())
	assert.Equal(t, "public static", class.Methods[3].ModifierString())

	for _, m := range class.Methods {
		for _, mod := range m.Modifiers {
			assert.NotEqual(t, models.ModAbstract, mod)
			assert.NotEqual(t, models.ModFinal, mod)
			assert.NotEqual(t, models.ModPrivate, mod)
		}
	}
}

func TestReconstruct_Relation(t *testing.T) {
	assert.Equal(t, models.RelationImplements, Reconstruct(&models.SourceType{Name: "Cache", Kind: models.KindInterface}, "").Relation)
	assert.Equal(t, models.RelationExtends, Reconstruct(&models.SourceType{Name: "Cache", Kind: models.KindClass}, "").Relation)
	assert.Equal(t, models.RelationExtends, Reconstruct(&models.SourceType{Name: "Cache", Kind: models.KindClass, IsAbstract: true}, "").Relation)
}

func TestReconstruct_DocCommentsAndReturnTypes(t *testing.T) {
	src := &models.SourceType{
		Name: `App\Mailer`,
		Methods: []models.Method{{
			Name:       "send",
			Modifiers:  mods(models.ModPublic),
			DocComment: "/** Sends. */",
			ReturnType: classHint(`App\Receipt`),
		}},
	}

	class := Reconstruct(src, "")
	assert.Equal(t, "/** Sends. */", class.Methods[1].DocComment)
	assert.Equal(t, `\App\Receipt`, class.Methods[1].ReturnType)
}

func TestReconstruct_Imports(t *testing.T) {
	src := &models.SourceType{
		Name: `App\Log\Logger`,
		Methods: []models.Method{
			{Name: "attach", Modifiers: mods(models.ModPublic), Parameters: []models.Parameter{
				{Name: "handler", Type: classHint(`App\Log\Handler`)},
				{Name: "clock", Type: classHint(`DateTimeInterface`)},
				{Name: "other", Type: classHint(`Vendor\Handler`)},
				{Name: "again", Type: classHint(`app\log\handler`)},
			}},
			{Name: "secret", Modifiers: mods(models.ModPrivate), Parameters: []models.Parameter{
				{Name: "ignored", Type: classHint(`App\Hidden`)},
			}},
		},
	}

	class := Reconstruct(src, `App\Decorators`)
	assert.Equal(t, []string{`App\Log\Logger`, `App\Log\Handler`, "DateTimeInterface"}, class.Imports)
	require.Len(t, class.Warnings, 1)
	assert.Equal(t, "attach($other): type Vendor\\Handler not imported, App\\Log\\Handler already uses the name", class.Warnings[0].String())

	global := Reconstruct(src, "")
	assert.Equal(t, []string{`App\Log\Logger`, `App\Log\Handler`}, global.Imports)
}

func TestReconstruct_GlobalSourceNeedsNoImport(t *testing.T) {
	class := Reconstruct(&models.SourceType{Name: "Logger"}, "")
	assert.Empty(t, class.Imports)

	namespaced := Reconstruct(&models.SourceType{Name: "Logger"}, `App\Decorators`)
	assert.Equal(t, []string{"Logger"}, namespaced.Imports)
}

func TestReconstruct_UnextendableSources(t *testing.T) {
	final := Reconstruct(&models.SourceType{Name: "Money", IsFinal: true}, "")
	require.Len(t, final.Warnings, 1)
	assert.Contains(t, final.Warnings[0].Message, "is final")

	trait := Reconstruct(&models.SourceType{Name: "Helpers", Kind: models.KindTrait}, "")
	require.Len(t, trait.Warnings, 1)
	assert.Contains(t, trait.Warnings[0].Message, "is a trait")
}

func TestReconstruct_IsPure(t *testing.T) {
	src := loggerSource()

	first := Reconstruct(src, "")
	second := Reconstruct(src, "")

	assert.Equal(t, loggerSource(), src)
	assert.Equal(t, first, second)
}

func TestNewReconstructor_InvalidVersion(t *testing.T) {
	_, err := NewReconstructor(Options{PHPVersion: "latest"})
	assert.Error(t, err)
}
