package inspector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/models"
)

func publicMethod(name string) models.Method {
	return models.Method{Name: name, Modifiers: models.NewModifierSet(models.ModPublic)}
}

func methodNames(t *models.SourceType) []string {
	names := make([]string, len(t.Methods))
	for i, m := range t.Methods {
		names[i] = m.Name
	}
	return names
}

func TestIndex_ResolveOrder(t *testing.T) {
	index := NewIndex(nil)
	index.Add(
		&models.SourceType{Name: `App\Child`, Parent: `App\Base`, Traits: []string{`App\Helpers`}, Interfaces: []string{`App\Contract`},
			Methods: []models.Method{publicMethod("own"), publicMethod("shared")}},
		&models.SourceType{Name: `App\Helpers`, Kind: models.KindTrait,
			Methods: []models.Method{publicMethod("help"), publicMethod("SHARED")}},
		&models.SourceType{Name: `App\Base`, Parent: `App\Root`,
			Methods: []models.Method{publicMethod("base"), publicMethod("help")}},
		&models.SourceType{Name: `App\Root`, Methods: []models.Method{publicMethod("root")}},
		&models.SourceType{Name: `App\Contract`, Kind: models.KindInterface, Interfaces: []string{`App\Parent`},
			Methods: []models.Method{publicMethod("contract"), publicMethod("own")}},
		&models.SourceType{Name: `App\Parent`, Kind: models.KindInterface, Methods: []models.Method{publicMethod("inherited")}},
	)

	resolved, err := index.Resolve(`\app\child`)
	require.NoError(t, err)

	assert.Equal(t, `App\Child`, resolved.Name)
	assert.Equal(t, []string{"own", "shared", "help", "base", "root", "contract", "inherited"}, methodNames(resolved))

	help, _ := resolved.Method("help")
	assert.Equal(t, `App\Child`, help.DeclaringClass, "trait methods belong to the using class")
	root, _ := resolved.Method("root")
	assert.Equal(t, `App\Root`, root.DeclaringClass)
}

func TestIndex_ResolveDoesNotAliasIndex(t *testing.T) {
	index := NewIndex(nil)
	index.Add(&models.SourceType{Name: "Thing", Methods: []models.Method{publicMethod("a")}})

	resolved, err := index.Resolve("Thing")
	require.NoError(t, err)
	resolved.Methods[0].Name = "changed"

	again, err := index.Resolve("Thing")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Methods[0].Name)
}

func TestIndex_MissingAncestorAndCycle(t *testing.T) {
	index := NewIndex(nil)
	index.Add(
		&models.SourceType{Name: "A", Parent: "B", Interfaces: []string{"Missing"}, Methods: []models.Method{publicMethod("a")}},
		&models.SourceType{Name: "B", Parent: "A", Methods: []models.Method{publicMethod("b")}},
	)

	resolved, err := index.Resolve("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, methodNames(resolved))
}

func TestIndex_DuplicateKeepsFirst(t *testing.T) {
	index := NewIndex(nil)
	index.Add(
		&models.SourceType{Name: `App\Thing`, File: "first.php"},
		&models.SourceType{Name: `APP\THING`, File: "second.php"},
	)

	assert.Equal(t, 1, index.Len())
	got, ok := index.Lookup(`app\thing`)
	require.True(t, ok)
	assert.Equal(t, "first.php", got.File)
}

func TestIndex_EnumDefaultsAcrossFiles(t *testing.T) {
	index := NewIndex(nil)
	index.Add(
		&models.SourceType{Name: `App\Level`, Kind: models.KindEnum},
		&models.SourceType{Name: `App\Logger`, Methods: []models.Method{{
			Name:      "log",
			Modifiers: models.NewModifierSet(models.ModPublic),
			Parameters: []models.Parameter{
				{Name: "level", Default: &models.DefaultValue{Kind: models.DefaultConstant, Constant: `App\Level::Debug`}},
				{Name: "eol", Default: &models.DefaultValue{Kind: models.DefaultConstant, Constant: "PHP_EOL"}},
			},
		}}},
	)

	resolved, err := index.Resolve(`App\Logger`)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEnum, resolved.Methods[0].Parameters[0].Default.Kind)
	assert.Equal(t, models.DefaultConstant, resolved.Methods[0].Parameters[1].Default.Kind)

	declared, _ := index.Lookup(`App\Logger`)
	assert.Equal(t, models.DefaultConstant, declared.Methods[0].Parameters[0].Default.Kind)
}

func TestIndex_InspectNotFound(t *testing.T) {
	index := NewIndex(nil)
	index.Add(&models.SourceType{Name: `App\Log\Logger`})

	_, err := index.Inspect(context.Background(), `App\Logger`)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	var coded errors.CodedError
	require.ErrorAs(t, err, &coded)
	assert.Contains(t, coded.Suggestions(), `Did you mean 'App\Log\Logger'?`)
}

func TestIndex_InspectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIndex(nil).Inspect(ctx, "Anything")
	assert.ErrorIs(t, err, context.Canceled)
}
