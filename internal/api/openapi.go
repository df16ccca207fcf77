package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Hurtuk18/server-announcements-be/internal/pkg/response"
)

// LoadOpenAPIDocument reads and validates the OpenAPI 3 document the
// service is driven by. A missing or invalid document is a startup error.
func LoadOpenAPIDocument(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("OpenAPI YAML not found: %s: %w", path, err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document %s: %w", path, err)
	}

	return doc, nil
}

// OpenAPIValidator checks requests and responses against the document.
type OpenAPIValidator struct {
	doc    *openapi3.T
	router routers.Router
}

func NewOpenAPIValidator(doc *openapi3.T) (*OpenAPIValidator, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}
	return &OpenAPIValidator{doc: doc, router: router}, nil
}

// Middleware validates the incoming request before the handler runs and
// the outgoing response after it. Non-conforming requests are rejected
// with 400 and never reach the handler; non-conforming responses are
// replaced with a 500.
func (v *OpenAPIValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, pathParams, err := v.router.FindRoute(c.Request)
		if err != nil {
			// Path not described by the document; nothing to validate.
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
				Message: "Request validation failed",
				Errors:  []string{err.Error()},
			})
			return
		}

		// Buffer the response so it can be validated before it is sent.
		// The restore is deferred so a panicking handler unwinds past
		// this middleware with the real writer back in place, letting
		// the recovery middleware report its 500 to the client.
		buffered := &bufferedWriter{ResponseWriter: c.Writer}
		original := c.Writer
		c.Writer = buffered
		defer func() { c.Writer = original }()

		c.Next()

		c.Writer = original

		status := buffered.status
		if status == 0 {
			status = http.StatusOK
		}

		respInput := &openapi3filter.ResponseValidationInput{
			RequestValidationInput: input,
			Status:                 status,
			Header:                 c.Writer.Header(),
		}
		respInput.SetBodyBytes(buffered.body.Bytes())

		if err := openapi3filter.ValidateResponse(c.Request.Context(), respInput); err != nil {
			log.Error().
				Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("response validation failed")
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Message: "Response validation failed",
			})
			return
		}

		original.WriteHeader(status)
		original.Write(buffered.body.Bytes())
	}
}

// bufferedWriter records the status code and body instead of writing
// them through, so the response can still be replaced.
type bufferedWriter struct {
	gin.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *bufferedWriter) WriteHeader(code int) {
	w.status = code
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	if w.status != 0 {
		return w.status
	}
	return http.StatusOK
}

func (w *bufferedWriter) Size() int {
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.status != 0 || w.body.Len() > 0
}
