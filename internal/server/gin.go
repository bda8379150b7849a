package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// pendingErrorKey carries a handler error up through gin's c.Next chain
const pendingErrorKey = "decorgen.pending_error"

// GinAdapter implements WebServer for Gin
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

// NewGinAdapter creates an adapter around g
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	ga := &GinAdapter{engine: g, server: &http.Server{Handler: g}}
	// renders any error no middleware consumed
	g.Use(func(c *gin.Context) {
		c.Next()
		if err := takePendingError(c); err != nil && !c.Writer.Written() {
			code, body := errorResponse(err)
			c.AbortWithStatusJSON(code, body)
		}
	})
	return ga
}

// NewDefaultGinAdapter creates an adapter with a bare Gin engine
func NewDefaultGinAdapter() *GinAdapter {
	return NewGinAdapter(gin.New())
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	var handlers []gin.HandlerFunc
	for _, middleware := range middlewares {
		handlers = append(handlers, ga.convertMiddleware(middleware))
	}
	handlers = append(handlers, ga.convertHandler(handler))
	ga.engine.Handle(method, path, handlers...)
}

// Use registers a global middleware with the Gin server
func (ga *GinAdapter) Use(middleware MiddlewareFunc) {
	ga.engine.Use(ga.convertMiddleware(middleware))
}

// Start starts the Gin server
func (ga *GinAdapter) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if err := ga.server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (ga *GinAdapter) Stop(ctx context.Context) error {
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// ServeHTTP lets the adapter serve requests directly
func (ga *GinAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ga.engine.ServeHTTP(w, r)
}

func (ga *GinAdapter) convertHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&GinRequestContext{ctx: c}); err != nil {
			c.Set(pendingErrorKey, err)
		}
	}
}

func (ga *GinAdapter) convertMiddleware(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := func(RequestContext) error {
			called = true
			c.Next()
			return takePendingError(c)
		}
		if err := middleware(next)(&GinRequestContext{ctx: c}); err != nil {
			c.Set(pendingErrorKey, err)
		}
		// a middleware that skips next ends the chain
		if !called {
			c.Abort()
		}
	}
}

func takePendingError(c *gin.Context) error {
	value, ok := c.Get(pendingErrorKey)
	if !ok {
		return nil
	}
	err, _ := value.(error)
	if err != nil {
		c.Set(pendingErrorKey, nil)
	}
	return err
}

// GinRequestContext implements RequestContext for Gin
type GinRequestContext struct {
	ctx *gin.Context
}

func (grc *GinRequestContext) Context() context.Context {
	return grc.ctx.Request.Context()
}

func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

func (grc *GinRequestContext) Header(key string) string {
	return grc.ctx.GetHeader(key)
}

func (grc *GinRequestContext) SetHeader(key, value string) {
	grc.ctx.Header(key, value)
}

func (grc *GinRequestContext) Bind(v interface{}) error {
	return decodeJSON(grc.ctx.Request.Body, v)
}

func (grc *GinRequestContext) Get(key string) interface{} {
	value, _ := grc.ctx.Get(key)
	return value
}

func (grc *GinRequestContext) Set(key string, val interface{}) {
	grc.ctx.Set(key, val)
}

func (grc *GinRequestContext) JSON(code int, v interface{}) error {
	grc.ctx.JSON(code, v)
	return nil
}

func (grc *GinRequestContext) Status() int {
	return grc.ctx.Writer.Status()
}
