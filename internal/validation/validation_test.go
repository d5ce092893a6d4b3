package validation_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productapi/internal/errs"
	"productapi/internal/validation"
)

func newTestApp(v *validation.Validator, chains ...*validation.Chain) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			httpErr := errs.Resolve(err)
			return c.Status(httpErr.Status).JSON(httpErr.Body())
		},
	})
	handler := func(c *fiber.Ctx) error {
		return c.JSON(errs.Data(validation.ParsedBody(c)))
	}
	app.Post("/items", v.Check(chains...), validation.HandleInputErrors, handler)
	app.Get("/items/:id", v.Check(chains...), validation.HandleInputErrors, handler)
	return app
}

type errorsBody struct {
	Errors []errs.FieldError `json:"errors"`
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, errorsBody) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded errorsBody
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func priceChain() *validation.Chain {
	return validation.BodyField("price").
		Is("numeric", "not numeric").
		Is("required", "empty").
		Custom(validation.PositiveDecimal, "not positive")
}

func TestCheck_RunsEveryRule(t *testing.T) {
	v := validation.New()
	app := newTestApp(v, validation.BodyField("name").Is("required", "name empty"), priceChain())

	tests := []struct {
		name     string
		body     string
		wantMsgs []string
	}{
		{"empty body", ``, []string{"name empty", "not numeric", "empty", "not positive"}},
		{"empty object", `{}`, []string{"name empty", "not numeric", "empty", "not positive"}},
		{"zero price", `{"name":"Monitor","price":0}`, []string{"not positive"}},
		{"text price", `{"name":"Monitor","price":"hola"}`, []string{"not numeric", "not positive"}},
		{"negative price", `{"name":"Monitor","price":-10}`, []string{"not positive"}},
		{"null name", `{"name":null,"price":"12.5"}`, []string{"name empty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, "/items", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			require.Len(t, body.Errors, len(tt.wantMsgs))
			for i, msg := range tt.wantMsgs {
				assert.Equal(t, msg, body.Errors[i].Msg)
				assert.Equal(t, "field", body.Errors[i].Type)
				assert.Equal(t, validation.LocationBody, body.Errors[i].Location)
			}
		})
	}
}

func TestCheck_ValidBodyReachesHandler(t *testing.T) {
	app := newTestApp(validation.New(), validation.BodyField("name").Is("required", "name empty"), priceChain())

	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Tablet","price":300}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var decoded struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, "Tablet", decoded.Data["name"])
	assert.EqualValues(t, 300, decoded.Data["price"])
}

func TestCheck_InvalidJSON(t *testing.T) {
	app := newTestApp(validation.New(), priceChain())

	status, body := do(t, app, http.MethodPost, "/items", `{"price":`)

	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, validation.MessageInvalidBody, body.Errors[0].Msg)
	assert.Equal(t, "body", body.Errors[0].Path)
}

func TestCheck_ParamChain(t *testing.T) {
	app := newTestApp(validation.New(), validation.ParamField("id").Is("number", "bad id"))

	status, body := do(t, app, http.MethodGet, "/items/not-valid", "")
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "bad id", body.Errors[0].Msg)
	assert.Equal(t, "not-valid", body.Errors[0].Value)
	assert.Equal(t, validation.LocationParams, body.Errors[0].Location)

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRun_BooleanRule(t *testing.T) {
	v := validation.New()
	chain := validation.BodyField("availability").Is("boolean", "bad flag")

	assert.Empty(t, v.Run(chain, true))
	assert.Empty(t, v.Run(chain, "false"))
	assert.Empty(t, v.Run(chain, json.Number("1")))
	assert.Len(t, v.Run(chain, nil), 1)
	assert.Len(t, v.Run(chain, "maybe"), 1)
}

func TestString(t *testing.T) {
	assert.Equal(t, "", validation.String(nil))
	assert.Equal(t, "hola", validation.String("hola"))
	assert.Equal(t, "12.50", validation.String(json.Number("12.50")))
	assert.Equal(t, "true", validation.String(true))
	assert.Equal(t, "0.5", validation.String(0.5))
	assert.Equal(t, `[1,2]`, validation.String([]any{1, 2}))
}

func TestPositiveDecimal(t *testing.T) {
	assert.True(t, validation.PositiveDecimal("0.01"))
	assert.True(t, validation.PositiveDecimal("300"))
	assert.False(t, validation.PositiveDecimal("0"))
	assert.False(t, validation.PositiveDecimal("-5"))
	assert.False(t, validation.PositiveDecimal("hola"))
	assert.False(t, validation.PositiveDecimal(""))
}
