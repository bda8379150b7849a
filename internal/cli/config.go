package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	decorerrors "github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/generator"
)

// ConfigName is the file looked up in the working directory when no -config is given
const ConfigName = ".decorgen"

// EnvPrefix prefixes every environment override, e.g. DECORGEN_NAMESPACE
const EnvPrefix = "DECORGEN"

// Frameworks the HTTP service can run on
var Frameworks = []string{"echo", "gin", "fiber"}

// Config holds the configuration for the CLI generator
type Config struct {
	// Source lists PHP source roots; a root may be a single file
	Source []string `mapstructure:"source"`

	// Descriptor lists YAML or JSON type descriptor files
	Descriptor []string `mapstructure:"descriptor"`

	// Namespace is the namespace of the generated decorators
	Namespace string `mapstructure:"namespace"`

	// Output is the directory generated files are written to
	Output string `mapstructure:"output"`

	// PHPVersion is the lowest PHP version the output must parse on
	PHPVersion string `mapstructure:"php_version"`

	// TemplateDir may contain class.tmpl, method.tmpl and constructor.tmpl overrides
	TemplateDir string `mapstructure:"template_dir"`

	// Targets are the fully qualified source types to decorate
	Targets []string `mapstructure:"targets"`

	Concurrency   int  `mapstructure:"concurrency"`
	IncludeVendor bool `mapstructure:"include_vendor"`

	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`

	// File is the configuration file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig configures the HTTP service
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	Framework string `mapstructure:"framework"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source", []string{})
	v.SetDefault("descriptor", []string{})
	v.SetDefault("namespace", "")
	v.SetDefault("output", ".")
	v.SetDefault("php_version", "")
	v.SetDefault("template_dir", "")
	v.SetDefault("targets", []string{})
	v.SetDefault("concurrency", 4)
	v.SetDefault("include_vendor", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.framework", "echo")
}

// LoadConfig reads the configuration file at path, or .decorgen.yaml from the
// working directory when path is empty. Environment variables prefixed with
// DECORGEN_ override file values; a missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, decorerrors.WrapConfigurationError(configLabel(path), "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, decorerrors.WrapConfigurationError(configLabel(path), "decode", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Source = splitList(cfg.Source)
	cfg.Descriptor = splitList(cfg.Descriptor)
	cfg.Targets = splitList(cfg.Targets)
	return &cfg, nil
}

func configLabel(path string) string {
	if path == "" {
		return ConfigName + ".yaml"
	}
	return path
}

// Validate checks the settings generation depends on
func (c *Config) Validate() error {
	var errs *decorerrors.MultipleErrors

	if len(c.Source) == 0 && len(c.Descriptor) == 0 {
		decorerrors.AddToMultiple(&errs, decorerrors.ConfigurationError("source", "no source roots or descriptor files configured").
			WithSuggestions("Pass -source ./src or -descriptor types.yaml", "Or set 'source' in "+ConfigName+".yaml"))
	}
	if c.Concurrency < 1 {
		decorerrors.AddToMultiple(&errs, decorerrors.ValidationError("concurrency", "a positive number", strconv.Itoa(c.Concurrency)))
	}
	if _, err := generator.NewReconstructor(generator.Options{PHPVersion: c.PHPVersion}); err != nil {
		var coded decorerrors.CodedError
		if errors.As(err, &coded) {
			decorerrors.AddToMultiple(&errs, coded)
		}
	}
	if !isFramework(c.Server.Framework) {
		decorerrors.AddToMultiple(&errs, decorerrors.ValidationError("server.framework", strings.Join(Frameworks, ", "), c.Server.Framework))
	}
	if c.Output == "" {
		c.Output = "."
	}

	return errs.ErrorOrNil()
}

func isFramework(name string) bool {
	for _, f := range Frameworks {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// splitList flattens comma separated entries, as they arrive from flags and
// environment variables
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
