package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/toyz/decorgen/internal/errors"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// requestIDKey stores the request id in the request context
const requestIDKey = "request_id"

// RequestID honours an incoming X-Request-ID header or generates a new one
func RequestID() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			id := c.Header(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDKey, id)
			c.SetHeader(RequestIDHeader, id)
			return next(c)
		}
	}
}

// RequestIDFrom returns the id assigned by RequestID, if any
func RequestIDFrom(c RequestContext) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}

// Logging writes one structured log line per request
func Logging(logger *zerolog.Logger) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			start := time.Now()
			err := next(c)

			status := c.Status()
			if err != nil {
				status, _ = errorResponse(err)
			}

			event := logger.Info()
			if status >= http.StatusInternalServerError {
				event = logger.Error().Err(err)
			}
			event.
				Str("request_id", RequestIDFrom(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("request")
			return err
		}
	}
}

// ErrorMapper turns handler errors into JSON error responses. Coded errors
// keep their message and suggestions and get a status from StatusFor.
func ErrorMapper() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			err := next(c)
			if err == nil {
				return nil
			}
			httpErr := ToHTTPError(err)
			httpErr.RequestID = RequestIDFrom(c)
			return c.JSON(httpErr.Code, httpErr)
		}
	}
}

// ToHTTPError converts any error into an HTTPError
func ToHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr
	}

	var coded errors.CodedError
	if !stderrors.As(err, &coded) {
		_, httpErr = errorResponse(err)
		return httpErr
	}

	httpErr = &HTTPError{
		Code:        StatusFor(coded.ErrorCode()),
		Message:     coded.Error(),
		Kind:        coded.ErrorCode().String(),
		Suggestions: coded.Suggestions(),
		Internal:    err,
	}
	if loc := coded.Location(); !loc.IsEmpty() {
		httpErr.Location = loc.String()
	}
	return httpErr
}

// StatusFor maps an error code to an HTTP status
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.NotFoundErrorCode:
		return http.StatusNotFound
	case errors.SyntaxErrorCode:
		return http.StatusBadRequest
	case errors.ValidationErrorCode:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
