package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// WebServer is the contract every framework adapter implements
type WebServer interface {
	// RegisterRoute registers a handler; middlewares run innermost, after the global ones
	RegisterRoute(method, path string, handler HandlerFunc, middlewares ...MiddlewareFunc)

	// Use adds a global middleware. Call it before registering routes.
	Use(middleware MiddlewareFunc)

	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RequestContext is the framework independent view of a request
type RequestContext interface {
	Context() context.Context
	Method() string
	Path() string

	Header(key string) string
	SetHeader(key, value string)

	// Bind decodes the JSON request body into v
	Bind(v interface{}) error

	Get(key string) interface{}
	Set(key string, val interface{})

	JSON(code int, v interface{}) error
	Status() int
}

// HandlerFunc defines the signature for HTTP handlers
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// HTTPError is an error with a status code, rendered as the JSON response body
type HTTPError struct {
	Code        int      `json:"code"`
	Message     string   `json:"message"`
	Kind        string   `json:"kind,omitempty"`
	Location    string   `json:"location,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
	Internal    error    `json:"-"`
}

// Error makes HTTPError implement the error interface
func (he *HTTPError) Error() string {
	if he.Internal != nil {
		return he.Internal.Error()
	}
	return he.Message
}

// Unwrap exposes the internal error
func (he *HTTPError) Unwrap() error {
	return he.Internal
}

// NewHTTPError creates a new HTTPError; an empty message uses the status text
func NewHTTPError(code int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message}
}

// errorResponse picks the status and body for an error that reached an adapter
func errorResponse(err error) (int, *HTTPError) {
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.Code, httpErr
	}
	return http.StatusInternalServerError, &HTTPError{
		Code:     http.StatusInternalServerError,
		Message:  err.Error(),
		Internal: err,
	}
}

// decodeJSON decodes a request body, rejecting unknown fields
func decodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httpErr := NewHTTPError(http.StatusBadRequest, "invalid JSON body: "+err.Error())
		httpErr.Internal = err
		return httpErr
	}
	return nil
}
