package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// EchoAdapter implements WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates an adapter around e
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var echoErr *echo.HTTPError
		if stderrors.As(err, &echoErr) {
			err = NewHTTPError(echoErr.Code, http.StatusText(echoErr.Code))
		}
		code, body := errorResponse(err)
		_ = c.JSON(code, body)
	}
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates an adapter with a fresh Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	return NewEchoAdapter(echo.New())
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	echoMiddlewares := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		echoMiddlewares[i] = ea.convertMiddleware(mw)
	}
	ea.engine.Add(method, path, ea.convertHandler(handler), echoMiddlewares...)
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	if err := ea.engine.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// ServeHTTP lets the adapter serve requests directly
func (ea *EchoAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ea.engine.ServeHTTP(w, r)
}

func (ea *EchoAdapter) convertHandler(handler HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler(&EchoRequestContext{context: c})
	}
}

func (ea *EchoAdapter) convertMiddleware(middleware MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			wrapped := middleware(func(RequestContext) error {
				return next(c)
			})
			return wrapped(&EchoRequestContext{context: c})
		}
	}
}

// EchoRequestContext implements RequestContext for Echo
type EchoRequestContext struct {
	context echo.Context
}

func (erc *EchoRequestContext) Context() context.Context {
	return erc.context.Request().Context()
}

func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

func (erc *EchoRequestContext) Header(key string) string {
	return erc.context.Request().Header.Get(key)
}

func (erc *EchoRequestContext) SetHeader(key, value string) {
	erc.context.Response().Header().Set(key, value)
}

func (erc *EchoRequestContext) Bind(v interface{}) error {
	return decodeJSON(erc.context.Request().Body, v)
}

func (erc *EchoRequestContext) Get(key string) interface{} {
	return erc.context.Get(key)
}

func (erc *EchoRequestContext) Set(key string, val interface{}) {
	erc.context.Set(key, val)
}

func (erc *EchoRequestContext) JSON(code int, v interface{}) error {
	return erc.context.JSON(code, v)
}

func (erc *EchoRequestContext) Status() int {
	return erc.context.Response().Status
}
