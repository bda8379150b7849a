package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/errors"
	"github.com/toyz/decorgen/internal/generator"
	"github.com/toyz/decorgen/internal/inspector"
	"github.com/toyz/decorgen/internal/models"
	"github.com/toyz/decorgen/internal/utils"
)

// DecoratorRequest renders a decorator for a type described by a descriptor document
type DecoratorRequest struct {
	Class      string               `json:"class"`
	Namespace  string               `json:"namespace,omitempty"`
	PHPVersion string               `json:"php_version,omitempty"`
	Descriptor inspector.Descriptor `json:"descriptor"`
}

// SourceRequest renders a decorator for a type declared in PHP source text
type SourceRequest struct {
	Class      string `json:"class"`
	Namespace  string `json:"namespace,omitempty"`
	PHPVersion string `json:"php_version,omitempty"`
	File       string `json:"file,omitempty"`
	Source     string `json:"source"`
}

// DecoratorResponse is the rendered decorator
type DecoratorResponse struct {
	Class    string   `json:"class"`
	FileName string   `json:"file_name"`
	Content  string   `json:"content"`
	Checksum string   `json:"checksum"`
	Warnings []string `json:"warnings"`
}

// Service serves the decorator API
type Service struct {
	renderer generator.ClassRenderer
	logger   *zerolog.Logger
}

// NewService creates the API service. A nil logger discards output.
func NewService(renderer generator.ClassRenderer, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{renderer: renderer, logger: logger}
}

// Register installs the middleware chain and the routes on ws
func (s *Service) Register(ws WebServer) {
	ws.Use(RequestID())
	ws.Use(Logging(s.logger))
	ws.Use(ErrorMapper())

	ws.RegisterRoute(http.MethodGet, "/health", s.health(ws.Name()))
	ws.RegisterRoute(http.MethodPost, "/api/v1/decorators", s.fromDescriptor)
	ws.RegisterRoute(http.MethodPost, "/api/v1/decorators/php", s.fromSource)
}

func (s *Service) health(framework string) HandlerFunc {
	return func(c RequestContext) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"framework": framework,
		})
	}
}

func (s *Service) fromDescriptor(c RequestContext) error {
	var req DecoratorRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := requireClass(req.Class); err != nil {
		return err
	}

	types, err := req.Descriptor.SourceTypes("request")
	if err != nil {
		return err
	}
	return s.render(c, types, req.Class, req.Namespace, req.PHPVersion)
}

func (s *Service) fromSource(c RequestContext) error {
	var req SourceRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := requireClass(req.Class); err != nil {
		return err
	}
	if req.File == "" {
		req.File = "request.php"
	}

	types, err := inspector.NewPHPInspector(nil, s.logger).InspectSource(c.Context(), req.File, []byte(req.Source))
	if err != nil {
		return err
	}
	return s.render(c, types, req.Class, req.Namespace, req.PHPVersion)
}

func (s *Service) render(c RequestContext, types []*models.SourceType, class, namespace, phpVersion string) error {
	index := inspector.NewIndex(s.logger)
	index.Add(types...)

	gen, err := generator.NewGenerator(index, s.renderer, nil, generator.Options{PHPVersion: phpVersion}, s.logger)
	if err != nil {
		return err
	}
	result, err := gen.Render(c.Context(), class, namespace)
	if err != nil {
		return err
	}

	sum, err := utils.Checksum([]byte(result.Content))
	if err != nil {
		return err
	}
	warnings := make([]string, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = w.String()
	}

	return c.JSON(http.StatusOK, DecoratorResponse{
		Class:    result.Class.Name,
		FileName: result.Class.FileName(),
		Content:  result.Content,
		Checksum: fmt.Sprintf("%016x", sum),
		Warnings: warnings,
	})
}

func requireClass(class string) error {
	if class == "" {
		return errors.ValidationError("class", "a fully qualified class name", "nothing").
			WithSuggestions(`Set "class", e.g. "App\\Log\\Logger"`)
	}
	return nil
}
