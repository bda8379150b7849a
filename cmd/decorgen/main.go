package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/cli"
	"github.com/toyz/decorgen/internal/server"
	"github.com/toyz/decorgen/internal/utils"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	config     string
	source     string
	descriptor string
	namespace  string
	output     string
	phpVersion string
	templates  string
	framework  string
	addr       string
	check      bool
	clean      bool
	serve      bool
	verbose    bool
	quiet      bool
	noColor    bool
	help       bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("decorgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.config, "config", "", "Configuration file (defaults to ./"+cli.ConfigName+".yaml when present)")
	fs.StringVar(&opts.source, "source", "", "Comma separated PHP source roots")
	fs.StringVar(&opts.descriptor, "descriptor", "", "Comma separated YAML or JSON type descriptor files")
	fs.StringVar(&opts.namespace, "namespace", "", "Namespace of the generated decorators")
	fs.StringVar(&opts.output, "output", "", "Directory the decorators are written to")
	fs.StringVar(&opts.phpVersion, "php-version", "", "Lowest PHP version the output must parse on, e.g. 7.4")
	fs.StringVar(&opts.templates, "templates", "", "Directory with class.tmpl, method.tmpl or constructor.tmpl overrides")
	fs.StringVar(&opts.framework, "framework", "", "HTTP framework for -serve: echo, gin or fiber")
	fs.StringVar(&opts.addr, "addr", "", "Listen address for -serve")
	fs.BoolVar(&opts.check, "check", false, "Verify generated files are current without writing them")
	fs.BoolVar(&opts.clean, "clean", false, "Delete generated decorators from the output directory")
	fs.BoolVar(&opts.serve, "serve", false, "Run the decorator HTTP API")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output and detailed error reporting")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only show errors and final results")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: decorgen [options] <fully-qualified-class...>\n\n")
		fmt.Fprintf(stderr, "PHP Decorator Generator\n")
		fmt.Fprintf(stderr, "Generates a <Class>Decorator for each named type that forwards every call to a wrapped instance.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  fully-qualified-class   Source types to decorate, e.g. 'App\\Log\\Logger'\n")
		fmt.Fprintf(stderr, "                          Replaces the 'targets' list of the configuration file\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  decorgen -source ./src -output ./src/Decorators 'App\\Log\\Logger'\n")
		fmt.Fprintf(stderr, "  decorgen -source ./src -namespace 'App\\Decorators' -php-version 7.4 'App\\Cache\\Cache'\n")
		fmt.Fprintf(stderr, "  decorgen -descriptor types.yaml 'Vendor\\Mailer'\n")
		fmt.Fprintf(stderr, "  decorgen -check                 # Fail when a generated file is out of date\n")
		fmt.Fprintf(stderr, "  decorgen -clean -output ./gen   # Delete generated decorators\n")
		fmt.Fprintf(stderr, "  decorgen -serve -framework gin  # Serve the HTTP API\n")
	}
	return fs
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if opts.help {
		fs.Usage()
		return exitOK
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case opts.quiet:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticError, stdout, stderr)
	case opts.verbose:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticVerbose, stdout, stderr)
	default:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticInfo, stdout, stderr)
	}
	if opts.noColor {
		diagnostics.SetColors(false)
		color.NoColor = true
	}

	config, err := cli.LoadConfig(opts.config)
	if err != nil {
		cli.NewDiagnosticReporterWithWriter(opts.verbose, stderr).ReportError(err)
		return exitUsage
	}
	applyFlags(fs, &opts, config)
	if targets := fs.Args(); len(targets) > 0 {
		config.Targets = targets
	}

	if opts.verbose {
		config.Log.Level = "debug"
	}
	logger, err := cli.NewLogger(config.Log.Level, stderr, opts.serve)
	if err != nil {
		diagnostics.Error("%v", err)
		return exitUsage
	}

	diagnostics.Section("PHP Decorator Generator")
	if config.File != "" {
		diagnostics.Verbose("Using configuration %s", config.File)
	}

	switch {
	case opts.clean:
		return clean(ctx, config, diagnostics, stderr, opts.verbose)
	case opts.serve:
		return serve(ctx, config, diagnostics, stderr, opts.verbose, logger)
	}

	if err := config.Validate(); err != nil {
		cli.NewDiagnosticReporterWithWriter(opts.verbose, stderr).ReportError(err)
		return exitUsage
	}

	if opts.verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Sources: %s", strings.Join(config.Source, ", "))
		diagnostics.List("Descriptors: %s", strings.Join(config.Descriptor, ", "))
		diagnostics.List("Namespace: %s", config.Namespace)
		diagnostics.List("Output: %s", config.Output)
		if config.PHPVersion != "" {
			diagnostics.List("PHP version: %s", config.PHPVersion)
		}
	}

	generator := cli.NewGenerator(config, diagnostics, logger)
	err = generator.Run(ctx, opts.check)

	summary := generator.GetSummary()
	title := "Generation Complete!"
	if opts.check {
		title = "Check Complete!"
	}
	if err != nil {
		generator.ReportError(err)
		if summary.Targets > 0 {
			diagnostics.Summary("Finished with errors", summary.Stats())
		}
		return exitError
	}

	diagnostics.Summary(title, summary.Stats())
	if opts.verbose && len(summary.Written) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.Written {
			diagnostics.List("%s", file)
		}
	}
	return exitOK
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(fs *flag.FlagSet, opts *options, config *cli.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			config.Source = splitFlag(opts.source)
		case "descriptor":
			config.Descriptor = splitFlag(opts.descriptor)
		case "namespace":
			config.Namespace = opts.namespace
		case "output":
			config.Output = opts.output
		case "php-version":
			config.PHPVersion = opts.phpVersion
		case "templates":
			config.TemplateDir = opts.templates
		case "framework":
			config.Server.Framework = opts.framework
		case "addr":
			config.Server.Addr = opts.addr
		}
	})
}

func splitFlag(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clean(ctx context.Context, config *cli.Config, diagnostics *utils.DiagnosticSystem, stderr io.Writer, verbose bool) int {
	output := config.Output
	if output == "" {
		output = "."
	}

	diagnostics.StartProgress("Cleaning generated files")
	removed, err := cli.NewCleaner(nil, nil).CleanGeneratedFiles(ctx, []string{output})
	if err != nil {
		diagnostics.EndProgress(false, "")
		cli.NewDiagnosticReporterWithWriter(verbose, stderr).ReportError(err)
		return exitError
	}
	diagnostics.EndProgress(true, fmt.Sprintf("%d removed", len(removed)))

	for _, file := range removed {
		diagnostics.Verbose("removed %s", file)
	}
	diagnostics.Success("Generated decorators have been removed from %s", output)
	return exitOK
}

func serve(ctx context.Context, config *cli.Config, diagnostics *utils.DiagnosticSystem, stderr io.Writer, verbose bool, logger *zerolog.Logger) int {
	reporter := cli.NewDiagnosticReporterWithWriter(verbose, stderr)

	ws, err := server.NewWebServer(config.Server.Framework)
	if err != nil {
		reporter.ReportError(err)
		return exitUsage
	}

	emitter, err := cli.NewGenerator(config, diagnostics, logger).NewEmitter(ctx)
	if err != nil {
		reporter.ReportError(err)
		return exitError
	}

	server.NewService(emitter, logger).Register(ws)
	diagnostics.Info("Serving the decorator API on %s with %s", config.Server.Addr, ws.Name())

	if err := server.Run(ctx, ws, config.Server.Addr, logger); err != nil {
		reporter.ReportError(err)
		return exitError
	}
	return exitOK
}
