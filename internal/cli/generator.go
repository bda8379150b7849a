package cli

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/generator"
	"github.com/toyz/decorgen/internal/inspector"
	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/templates"
	"github.com/toyz/decorgen/internal/utils"
	"github.com/toyz/decorgen/internal/utils/fileops"
)

// GenerationSummary contains information about a batch run
type GenerationSummary struct {
	FilesParsed  int
	FilesSkipped int
	TypesIndexed int
	Targets      int
	Written      []string // files written
	Unchanged    []string // files that already matched
	Stale        []string // check mode: files missing or out of date
	Warnings     int
	Failed       int
	Duration     time.Duration
}

// Stats returns the summary in the shape DiagnosticSystem.Summary prints
func (s GenerationSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Files parsed":   s.FilesParsed,
		"Files skipped":  s.FilesSkipped,
		"Types indexed":  s.TypesIndexed,
		"Targets":        s.Targets,
		"Files written":  len(s.Written),
		"Files current":  len(s.Unchanged),
		"Files stale":    len(s.Stale),
		"Warnings":       s.Warnings,
		"Targets failed": s.Failed,
	}
}

// Generator coordinates the CLI generation process
type Generator struct {
	config      *Config
	fileOps     *fileops.FileOps
	loader      *inspector.Loader
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	logger      *zerolog.Logger

	mu      sync.Mutex
	summary GenerationSummary
}

// NewGenerator creates a new CLI generator. A nil logger discards output.
func NewGenerator(config *Config, diagnostics *utils.DiagnosticSystem, logger *zerolog.Logger) *Generator {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	fileOps := fileops.NewFileOps()
	return &Generator{
		config:      config,
		fileOps:     fileOps,
		loader:      inspector.NewLoader(fileOps, logger),
		reporter:    NewDiagnosticReporter(diagnostics.Level() >= utils.DiagnosticVerbose),
		diagnostics: diagnostics,
		logger:      logger,
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary
}

// LoadIndex scans the configured source roots and descriptor files
func (g *Generator) LoadIndex(ctx context.Context) (*inspector.Index, error) {
	index := inspector.NewIndex(g.logger)

	if len(g.config.Source) > 0 {
		g.diagnostics.StartProgress("Scanning PHP sources")
		stats, err := g.loader.LoadSources(ctx, index, g.config.Source, inspector.LoadOptions{IncludeVendor: g.config.IncludeVendor})
		if err != nil {
			g.diagnostics.EndProgress(false, "")
			return nil, err
		}
		g.diagnostics.EndProgress(true, strconv.Itoa(stats.Files)+" files")
		g.summary.FilesParsed += stats.Files
		g.summary.FilesSkipped += stats.Skipped
		if stats.Skipped > 0 {
			g.diagnostics.Warn("%d files could not be parsed and were skipped", stats.Skipped)
		}
	}

	if len(g.config.Descriptor) > 0 {
		g.diagnostics.StartProgress("Reading descriptors")
		stats, err := g.loader.LoadDescriptors(ctx, index, g.config.Descriptor)
		if err != nil {
			g.diagnostics.EndProgress(false, "")
			return nil, err
		}
		g.diagnostics.EndProgress(true, strconv.Itoa(stats.Files)+" files")
		g.summary.FilesParsed += stats.Files
	}

	g.summary.TypesIndexed = index.Len()
	g.diagnostics.Verbose("Indexed %d types", index.Len())
	return index, nil
}

// NewEmitter builds the emitter, applying template_dir overrides
func (g *Generator) NewEmitter(ctx context.Context) (*templates.Emitter, error) {
	registry := templates.NewTemplateRegistry()
	if g.config.TemplateDir != "" {
		overridden, err := registry.LoadOverrides(ctx, g.fileOps, g.config.TemplateDir)
		if err != nil {
			return nil, err
		}
		for _, name := range overridden {
			g.diagnostics.Verbose("Using %s template from %s", name, g.config.TemplateDir)
		}
	}
	return templates.NewEmitter(registry)
}

// Run generates (or, with checkOnly, verifies) a decorator for every target.
// Targets run concurrently; a failing target does not stop the others.
func (g *Generator) Run(ctx context.Context, checkOnly bool) error {
	started := time.Now()
	g.summary = GenerationSummary{Targets: len(g.config.Targets)}

	if len(g.config.Targets) == 0 {
		return errors.ConfigurationError("targets", "no source types to decorate").
			WithSuggestions("Pass fully qualified class names as arguments", "Or list them under 'targets' in "+ConfigName+".yaml")
	}

	index, err := g.LoadIndex(ctx)
	if err != nil {
		return err
	}
	emitter, err := g.NewEmitter(ctx)
	if err != nil {
		return err
	}
	gen, err := generator.NewGenerator(index, emitter, fileops.NewStore(g.fileOps),
		generator.Options{PHPVersion: g.config.PHPVersion}, g.logger)
	if err != nil {
		return err
	}

	g.diagnostics.Subsection("Decorators")

	var failures *errors.MultipleErrors
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Concurrency)

	for _, target := range g.config.Targets {
		target := target
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := g.runTarget(groupCtx, gen, target, checkOnly)
			g.record(target, result, err, &failures)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	g.finish(started)

	if err := failures.ErrorOrNil(); err != nil {
		return err
	}
	if checkOnly && len(g.summary.Stale) > 0 {
		return errors.Newf(errors.ValidationErrorCode, "%d generated files are missing or out of date", len(g.summary.Stale)).
			WithContext("files", g.summary.Stale).
			WithSuggestions("Run decorgen without -check to regenerate them")
	}
	return nil
}

func (g *Generator) runTarget(ctx context.Context, gen *generator.Generator, target string, checkOnly bool) (*models.GenerationResult, error) {
	if checkOnly {
		return gen.Check(ctx, target, g.config.Namespace, g.config.Output)
	}
	return gen.Generate(ctx, target, g.config.Namespace, g.config.Output)
}

// record folds one target result into the summary
func (g *Generator) record(target string, result *models.GenerationResult, err error, failures **errors.MultipleErrors) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		g.summary.Failed++
		g.diagnostics.Error("%s: %v", target, err)
		coded, ok := err.(errors.CodedError)
		if !ok {
			coded = errors.WrapGenerateError(target, err)
		}
		errors.AddToMultiple(failures, coded)
		return
	}

	switch {
	case result.Written:
		g.summary.Written = append(g.summary.Written, result.FilePath)
		g.diagnostics.FileWritten(result.FilePath, true)
	case result.Stale:
		g.summary.Stale = append(g.summary.Stale, result.FilePath)
		g.diagnostics.Warn("%s is missing or out of date", result.FilePath)
	default:
		g.summary.Unchanged = append(g.summary.Unchanged, result.FilePath)
		g.diagnostics.FileWritten(result.FilePath, false)
	}

	// warnings are listed under the file they belong to
	g.diagnostics.Indent()
	for _, w := range result.Warnings {
		g.diagnostics.Warn("%s: %s", result.Class.Name, w.String())
	}
	g.diagnostics.Unindent()
	g.summary.Warnings += len(result.Warnings)
}

func (g *Generator) finish(started time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sort.Strings(g.summary.Written)
	sort.Strings(g.summary.Unchanged)
	sort.Strings(g.summary.Stale)
	g.summary.Duration = time.Since(started)

	g.logger.Debug().
		Int("targets", g.summary.Targets).
		Int("written", len(g.summary.Written)).
		Int("failed", g.summary.Failed).
		Dur("duration", g.summary.Duration).
		Msg("batch finished")
}

// ReportError prints err through the diagnostic reporter
func (g *Generator) ReportError(err error) {
	g.reporter.ReportError(err)
}
