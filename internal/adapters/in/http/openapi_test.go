package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidatedEcho(t *testing.T) *echo.Echo {
	t.Helper()
	doc, err := LoadDocument(t.Context())
	require.NoError(t, err)
	validator, err := RequestValidator(doc)
	require.NoError(t, err)

	e := echo.New()
	e.Use(validator)
	e.Any("/*", func(c echo.Context) error {
		return c.NoContent(http.StatusTeapot)
	})
	return e
}

func Test_RequestValidatorPassesUndescribedPaths(t *testing.T) {
	e := newValidatedEcho(t)

	for _, target := range []string{"/health", "/swagger/index.html", "/nope"} {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			assert.Equal(t, http.StatusTeapot, rec.Code, rec.Body.String())
		})
	}
}

func Test_RequestValidatorRejectsUndeclaredMethod(t *testing.T) {
	e := newValidatedEcho(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/orders", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func Test_RequestValidatorRejectsMissingRequiredParameter(t *testing.T) {
	e := newValidatedEcho(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kpi/sales-summary", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurantId")
}
