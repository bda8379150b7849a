package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/inspector"
	"github.com/toyz/decorgen/internal/templates"
	"github.com/toyz/decorgen/internal/utils/fileops"
)

const loggerPHP = `<?php
namespace App\Log;

use Psr\Log\LoggerInterface;

class Logger
{
    public function __construct(private string $channel) {}

    /**
     * Writes a message.
     */
    public function log(string $msg, int $level = 1): void {}

    private function format() {}

    final public function flush() {}

    public function chain(LoggerInterface $next): static {}

    public static function create(string ...$channels): self {}
}
`

const loggerDecorator = `<?php

// Code generated by decorgen. DO NOT EDIT.

namespace App\Decorators;

use App\Log\Logger;
use Psr\Log\LoggerInterface;

class LoggerDecorator extends Logger
{
    protected $instance;

    public function __construct(Logger $instance)
    {
        $this->instance = $instance;
    }

    /**
     * Writes a message.
     */
    public function log(string $msg, int $level = 1):void
    {
        $this->instance->log($msg, $level);
    }

    public function chain(LoggerInterface $next):static
    {
        return $this->instance->chain($next);
    }

    public static function create(string ...$channels):\App\Log\Logger
    {
        return Logger::create(...$channels);
    }
}
`

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()

	types, err := inspector.NewPHPInspector(nil, nil).InspectSource(context.Background(), "Logger.php", []byte(loggerPHP))
	require.NoError(t, err)

	index := inspector.NewIndex(nil)
	index.Add(types...)

	emitter, err := templates.NewEmitter(templates.NewTemplateRegistry())
	require.NoError(t, err)

	gen, err := NewGenerator(index, emitter, fileops.NewStore(fileops.NewFileOps()), opts, nil)
	require.NoError(t, err)
	return gen
}

func TestGenerator_Generate(t *testing.T) {
	gen := newTestGenerator(t, Options{})
	dir := t.TempDir()

	result, err := gen.Generate(context.Background(), `App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "LoggerDecorator.php"), result.FilePath)
	assert.True(t, result.Written)
	assert.True(t, result.Stale)
	assert.NotZero(t, result.Checksum)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, loggerDecorator, result.Content)

	written, err := os.ReadFile(result.FilePath)
	require.NoError(t, err)
	assert.Equal(t, loggerDecorator, string(written))
}

func TestGenerator_GenerateIsIdempotent(t *testing.T) {
	gen := newTestGenerator(t, Options{})
	dir := t.TempDir()
	ctx := context.Background()

	first, err := gen.Generate(ctx, `\App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)
	assert.True(t, first.Written)

	second, err := gen.Generate(ctx, `App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)
	assert.False(t, second.Written)
	assert.False(t, second.Stale)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Checksum, second.Checksum)
}

func TestGenerator_Check(t *testing.T) {
	gen := newTestGenerator(t, Options{})
	dir := t.TempDir()
	ctx := context.Background()
	path := filepath.Join(dir, "LoggerDecorator.php")

	result, err := gen.Check(ctx, `App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)
	assert.True(t, result.Stale)
	assert.False(t, result.Written)
	assert.NoFileExists(t, path)

	_, err = gen.Generate(ctx, `App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)

	result, err = gen.Check(ctx, `App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)
	assert.False(t, result.Stale)

	require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0o644))
	result, err = gen.Check(ctx, `App\Log\Logger`, `App\Decorators`, dir)
	require.NoError(t, err)
	assert.True(t, result.Stale)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\n", string(content))
}

func TestGenerator_Render(t *testing.T) {
	gen := newTestGenerator(t, Options{PHPVersion: "7.0"})

	result, err := gen.Render(context.Background(), `App\Log\Logger`, "")
	require.NoError(t, err)

	assert.Empty(t, result.FilePath)
	assert.NotContains(t, result.Content, "namespace ")
	assert.Contains(t, result.Content, "use App\\Log\\Logger;\nuse Psr\\Log\\LoggerInterface;")
	assert.Contains(t, result.Content, "public function log(string $msg, int $level = 1)\n")

	// void needs 7.1
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "log(): return type void dropped for PHP 7.0", result.Warnings[0].String())
}

func TestGenerator_NotFound(t *testing.T) {
	gen := newTestGenerator(t, Options{})
	dir := t.TempDir()

	_, err := gen.Generate(context.Background(), `App\Missing`, "", dir)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewGenerator_Validation(t *testing.T) {
	emitter, err := templates.NewEmitter(templates.NewTemplateRegistry())
	require.NoError(t, err)
	index := inspector.NewIndex(nil)

	_, err = NewGenerator(nil, emitter, nil, Options{}, nil)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	_, err = NewGenerator(index, nil, nil, Options{}, nil)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))

	_, err = NewGenerator(index, emitter, nil, Options{PHPVersion: "seven"}, nil)
	assert.Equal(t, errors.ValidationErrorCode, errors.CodeOf(err))
}
