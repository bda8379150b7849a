package server

import (
	"bytes"
	"context"
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
)

// FiberAdapter wraps a Fiber app to implement WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if stderrors.As(err, &fiberErr) {
				err = NewHTTPError(fiberErr.Code, fiberErr.Message)
			}
			code, body := errorResponse(err)
			return c.Status(code).JSON(body)
		},
	})

	return &FiberAdapter{app: app}
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	var handlers []fiber.Handler
	for _, mw := range middlewares {
		handlers = append(handlers, convertMiddlewareToFiber(mw))
	}
	handlers = append(handlers, convertHandlerToFiber(handler))
	fa.app.Add(method, path, handlers...)
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware MiddlewareFunc) {
	fa.app.Use(convertMiddlewareToFiber(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// App returns the underlying Fiber app
func (fa *FiberAdapter) App() *fiber.App {
	return fa.app
}

func convertHandlerToFiber(handler HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(&FiberRequestContext{ctx: c})
	}
}

func convertMiddlewareToFiber(middleware MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return middleware(func(RequestContext) error {
			return c.Next()
		})(&FiberRequestContext{ctx: c})
	}
}

// FiberRequestContext wraps fiber.Ctx to implement RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

func (frc *FiberRequestContext) Context() context.Context {
	return frc.ctx.UserContext()
}

func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

func (frc *FiberRequestContext) Header(key string) string {
	return frc.ctx.Get(key)
}

func (frc *FiberRequestContext) SetHeader(key, value string) {
	frc.ctx.Set(key, value)
}

func (frc *FiberRequestContext) Bind(v interface{}) error {
	return decodeJSON(bytes.NewReader(frc.ctx.Body()), v)
}

func (frc *FiberRequestContext) Get(key string) interface{} {
	return frc.ctx.Locals(key)
}

func (frc *FiberRequestContext) Set(key string, val interface{}) {
	frc.ctx.Locals(key, val)
}

func (frc *FiberRequestContext) JSON(code int, v interface{}) error {
	return frc.ctx.Status(code).JSON(v)
}

func (frc *FiberRequestContext) Status() int {
	return frc.ctx.Response().StatusCode()
}
