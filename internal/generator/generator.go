package generator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/inspector"
	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/utils/fileops"
)

// Generator implements DecoratorGenerator: it inspects the source type,
// reconstructs the decorator, renders it and stores the file
type Generator struct {
	provider      inspector.Provider
	reconstructor *Reconstructor
	renderer      ClassRenderer
	store         *fileops.Store
	logger        *zerolog.Logger
}

// NewGenerator wires a generator. A nil logger discards output; a nil store
// writes through a default file store.
func NewGenerator(provider inspector.Provider, renderer ClassRenderer, store *fileops.Store, opts Options, logger *zerolog.Logger) (*Generator, error) {
	if provider == nil {
		return nil, errors.New(errors.ConfigurationErrorCode, "generator requires an introspection provider")
	}
	if renderer == nil {
		return nil, errors.New(errors.ConfigurationErrorCode, "generator requires a renderer")
	}
	reconstructor, err := NewReconstructor(opts)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = fileops.NewStore(nil)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Generator{
		provider:      provider,
		reconstructor: reconstructor,
		renderer:      renderer,
		store:         store,
		logger:        logger,
	}, nil
}

// Generate writes <path>/<Short>Decorator.php for the source type. An
// unresolvable source type is returned as the provider reported it.
func (g *Generator) Generate(ctx context.Context, source, namespace, path string) (*models.GenerationResult, error) {
	return g.generate(ctx, source, namespace, path, false)
}

// Check renders the decorator and reports whether the file on disk is stale without writing
func (g *Generator) Check(ctx context.Context, source, namespace, path string) (*models.GenerationResult, error) {
	return g.generate(ctx, source, namespace, path, true)
}

// Render builds the decorator source without touching the file system
func (g *Generator) Render(ctx context.Context, source, namespace string) (*models.GenerationResult, error) {
	src, err := g.provider.Inspect(ctx, source)
	if err != nil {
		return nil, err
	}

	class := g.reconstructor.Reconstruct(src, namespace)
	content, err := g.renderer.Render(class)
	if err != nil {
		return nil, errors.WrapGenerateError(class.Name, err)
	}

	for _, w := range class.Warnings {
		g.logger.Warn().Str("class", class.Name).Msg(w.String())
	}
	g.logger.Debug().
		Str("source", src.Name).
		Str("class", class.Name).
		Int("methods", len(class.Methods)-1).
		Msg("decorator rendered")

	return &models.GenerationResult{
		Class:    class,
		Content:  content,
		Warnings: class.Warnings,
	}, nil
}

func (g *Generator) generate(ctx context.Context, source, namespace, path string, checkOnly bool) (*models.GenerationResult, error) {
	result, err := g.Render(ctx, source, namespace)
	if err != nil {
		return nil, err
	}

	stored, err := g.store.Store(ctx, path, result.Class.FileName(), result.Content, checkOnly)
	if err != nil {
		return nil, errors.WrapGenerateError(result.Class.Name, err)
	}

	result.FilePath = stored.Path
	result.Checksum = stored.Checksum
	result.Written = stored.Written
	result.Stale = stored.Stale

	g.logger.Info().
		Str("file", stored.Path).
		Bool("written", stored.Written).
		Bool("stale", stored.Stale).
		Msg("decorator stored")
	return result, nil
}
