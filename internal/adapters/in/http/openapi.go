package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var rawDocument []byte

// LoadDocument parses and validates the embedded OpenAPI document. Servers are
// cleared so routes match regardless of the host the service runs on.
func LoadDocument(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	doc.Servers = nil
	return doc, nil
}

type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string {
	return d.json
}

var registerOnce sync.Once

// registerSwaggerDoc exposes the document to echo-swagger under swag.Name.
// swag panics on duplicate names, so only the first call registers.
func registerSwaggerDoc(doc *openapi3.T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}
	registerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(data)})
	})
	return nil
}

// RequestValidator rejects requests that do not match the document. Paths
// the document does not describe (health, swagger) pass through untouched.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				switch routeErrorReason(err) {
				case routers.ErrPathNotFound.Error():
					return next(c)
				case routers.ErrMethodNotAllowed.Error():
					return c.JSON(http.StatusMethodNotAllowed, Error{
						Code:    http.StatusMethodNotAllowed,
						Message: "Method not allowed",
					})
				}
				return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    &openapi3filter.Options{MultiError: false},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return c.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: validationMessage(err),
				})
			}
			return next(c)
		}
	}, nil
}

// routeErrorReason returns the reason of a router failure. The legacy router
// builds a fresh RouteError per call, so the sentinels only match by reason.
func routeErrorReason(err error) string {
	var routeErr *routers.RouteError
	if errors.As(err, &routeErr) {
		return routeErr.Reason
	}
	return ""
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			return fmt.Sprintf("parameter %s: %s", reqErr.Parameter.Name, reqErr.Reason)
		}
		if reqErr.RequestBody != nil {
			return fmt.Sprintf("request body: %v", reqErr.Err)
		}
	}
	return err.Error()
}
