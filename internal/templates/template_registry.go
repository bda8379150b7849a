package templates

import (
	"context"
	"path/filepath"

	"github.com/toyz/decorgen/internal/utils/fileops"
)

// Template names
const (
	ClassTemplate       = "class"
	MethodTemplate      = "method"
	ConstructorTemplate = "constructor"
)

// GeneratedMarker is written at the top of every generated file and is how
// generated files are recognised when cleaning
const GeneratedMarker = "// Code generated by decorgen. DO NOT EDIT."

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with the built-in templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerClassTemplates()
	registry.registerMethodTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// Override replaces a template
func (tr *TemplateRegistry) Override(name, text string) {
	tr.templates[name] = text
}

// LoadOverrides replaces templates with <name>.tmpl files found in dir.
// It returns the names that were overridden.
func (tr *TemplateRegistry) LoadOverrides(ctx context.Context, fileOps *fileops.FileOps, dir string) ([]string, error) {
	var overridden []string
	for _, name := range []string{ClassTemplate, MethodTemplate, ConstructorTemplate} {
		path := filepath.Join(dir, name+".tmpl")
		if !fileOps.Exists(ctx, path) {
			continue
		}
		content, err := fileOps.ReadFile(ctx, path)
		if err != nil {
			return overridden, err
		}
		tr.Override(name, string(content))
		overridden = append(overridden, name)
	}
	return overridden, nil
}

// registerClassTemplates registers the file level template
func (tr *TemplateRegistry) registerClassTemplates() {
	tr.templates[ClassTemplate] = `<?php

{{.marker}}
{{- if .namespace}}

{{.namespace}}
{{- end}}
{{- if .use}}

{{.use}}
{{- end}}

{{.header}}
{
    protected $instance;

{{.body}}
}
`
}

// registerMethodTemplates registers the constructor and forwarding method templates
func (tr *TemplateRegistry) registerMethodTemplates() {
	tr.templates[ConstructorTemplate] = `    {{.modifiers}} function {{.name}}({{.parameters}})
    {
        $this->instance = $instance;
    }`

	tr.templates[MethodTemplate] = `{{if .comment}}{{.comment}}
{{end}}    {{if .modifiers}}{{.modifiers}} {{end}}function {{.name}}({{.parameters}}){{.return}}
    {
        {{.forward}}
    }`
}
