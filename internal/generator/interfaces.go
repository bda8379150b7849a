package generator

import (
	"context"

	"github.com/toyz/decorgen/internal/models"
)

// DecoratorGenerator generates decorator classes for source types
type DecoratorGenerator interface {
	Generate(ctx context.Context, source, namespace, path string) (*models.GenerationResult, error)
	Check(ctx context.Context, source, namespace, path string) (*models.GenerationResult, error)
	Render(ctx context.Context, source, namespace string) (*models.GenerationResult, error)
}

// ClassRenderer turns a generated class model into source text
type ClassRenderer interface {
	Render(class *models.GeneratedClass) (string, error)
}
