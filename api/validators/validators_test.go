package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/poiu748/cafe-alya/pkg/errors"
)

type sampleBody struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	var ok sampleBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Latte","quantity":2}`))
	require.NoError(t, DecodeJSONBody(req, &ok))
	assert.Equal(t, "Latte", ok.Name)

	var unknown sampleBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Latte","quantity":2,"price":1}`))
	err := DecodeJSONBody(req, &unknown)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var invalid sampleBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0}`))
	err = DecodeJSONBody(req, &invalid)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, map[string]string{
		"name":     "is required",
		"quantity": "must be greater than or equal to 1",
	}, typed.Details())
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?days=30&low=true&from=2024-10-01&bad=x", nil)

	days, err := ParseQueryInt(req, "days", 7, 0, 365)
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	def, err := ParseQueryInt(req, "missing", 7, 0, 365)
	require.NoError(t, err)
	assert.Equal(t, 7, def)

	_, err = ParseQueryInt(req, "days", 7, 0, 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	low, err := ParseQueryBool(req, "low")
	require.NoError(t, err)
	assert.True(t, low)
	_, err = ParseQueryBool(req, "bad")
	assert.Error(t, err)

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	from, err := ParseQueryTime(req, "from", loc)
	require.NoError(t, err)
	require.NotNil(t, from)
	assert.True(t, from.Equal(time.Date(2024, 10, 1, 0, 0, 0, 0, loc)))

	none, err := ParseQueryTime(req, "to", loc)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseQueryTime(req, "bad", loc)
	assert.Error(t, err)
}

func TestParseUUIDParam(t *testing.T) {
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("orderId", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	id, err := ParseUUIDParam(withParam("5b0b6c1e-34b5-4c8a-9a55-3f4f1a4f2a10"), "orderId")
	require.NoError(t, err)
	assert.Equal(t, "5b0b6c1e-34b5-4c8a-9a55-3f4f1a4f2a10", id.String())

	_, err = ParseUUIDParam(withParam("nope"), "orderId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Alya", SanitizeString("  Alya  ", 10))
	assert.Equal(t, "Aly", SanitizeString("Alya", 3))
}
