package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/toyz/decorgen/internal/errors"
)

func init() {
	color.NoColor = true
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(false, &buf)

	reporter.ReportWarning("log($msg): string default emitted without escaping")

	if !strings.Contains(buf.String(), "! log($msg): string default emitted without escaping") {
		t.Errorf("Expected warning message not found in output: %q", buf.String())
	}
}

func TestDiagnosticReporter_ReportCodedError(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(false, &buf)

	err := errors.TypeNotFound(`App\Missing`).
		WithSuggestions("Did you mean 'App\\Log\\Missing'?")
	reporter.ReportError(err)

	output := buf.String()
	expected := []string{
		"ERROR: Decorator Generation Failed",
		"Type: Source Type Not Found",
		"Message: source type 'App\\Missing' not found",
		"Context:",
		"Type: App\\Missing",
		"Suggestions:",
		"1. Check the fully qualified name, including the namespace",
		"4. Did you mean 'App\\Log\\Missing'?",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Error Chain:") {
		t.Errorf("Error chain must only be printed in verbose mode")
	}
}

func TestDiagnosticReporter_Location(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(false, &buf)

	err := errors.New(errors.SyntaxErrorCode, "unexpected token").
		WithLocation(errors.SourceLocation{File: "src/Broken.php", Line: 4, Column: 2})
	reporter.ReportError(err)

	if !strings.Contains(buf.String(), "Location: src/Broken.php:4:2") {
		t.Errorf("Expected location in output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Type: Syntax Error") {
		t.Errorf("Expected syntax error header in output:\n%s", buf.String())
	}
}

func TestDiagnosticReporter_VerboseChain(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(true, &buf)

	cause := fmt.Errorf("permission denied")
	reporter.ReportError(errors.WrapFileSystemError("write", "/out/LoggerDecorator.php", cause))

	output := buf.String()
	if !strings.Contains(output, "Error Chain:") {
		t.Fatalf("Expected error chain in verbose output:\n%s", output)
	}
	if !strings.Contains(output, "2. permission denied") {
		t.Errorf("Expected wrapped cause in chain:\n%s", output)
	}
}

func TestDiagnosticReporter_MultipleErrors(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(false, &buf)

	multi := errors.NewMultipleErrors()
	multi.Add(errors.TypeNotFound("A"))
	multi.Add(errors.ValidationError("concurrency", "a positive number", "0"))
	reporter.ReportError(multi)

	output := buf.String()
	for _, want := range []string{"[1/2]", "[2/2]", "Type: Validation Error", "source type 'A' not found"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestDiagnosticReporter_PlainError(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(false, &buf)

	reporter.ReportError(fmt.Errorf("boom"))
	reporter.ReportError(nil)

	if !strings.Contains(buf.String(), "Message: boom") {
		t.Errorf("Expected plain message in output:\n%s", buf.String())
	}
	if strings.Count(buf.String(), "ERROR:") != 1 {
		t.Errorf("A nil error must not be reported")
	}
}

func TestFormatContextKey(t *testing.T) {
	tests := map[string]string{
		"type_name":   "Type",
		"config_type": "Config Type",
		"operation":   "Operation",
	}
	for key, want := range tests {
		if got := formatContextKey(key); got != want {
			t.Errorf("formatContextKey(%q) = %q, want %q", key, got, want)
		}
	}
}
