// Package validation runs ordered rule chains over request fields and collects
// every failure before the handler is reached.
//
// A chain is bound to one field in one location (body or route params). Each
// rule is either a go-playground/validator tag or a custom predicate, paired
// with the message reported when it fails. All rules of all chains run; there
// is no short-circuit.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"productapi/internal/errs"
)

// Field locations.
const (
	LocationBody   = "body"
	LocationParams = "params"
)

const (
	localsBody   = "validation.body"
	localsErrors = "validation.errors"
)

// MessageInvalidBody is reported when the request body is not a JSON object.
const MessageInvalidBody = "Cuerpo de la petición no válido"

type rule struct {
	tag     string
	check   func(value string) bool
	message string
}

// Chain is an ordered list of rules for a single field.
type Chain struct {
	field    string
	location string
	rules    []rule
}

// BodyField starts a chain for a JSON body field.
func BodyField(field string) *Chain {
	return &Chain{field: field, location: LocationBody}
}

// ParamField starts a chain for a route parameter.
func ParamField(field string) *Chain {
	return &Chain{field: field, location: LocationParams}
}

// Is adds a rule passing when the value satisfies the validator tag.
func (c *Chain) Is(tag, message string) *Chain {
	c.rules = append(c.rules, rule{tag: tag, message: message})
	return c
}

// Custom adds a rule passing when check returns true.
func (c *Chain) Custom(check func(value string) bool, message string) *Chain {
	c.rules = append(c.rules, rule{check: check, message: message})
	return c
}

// Validator evaluates chains.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Run evaluates every rule of chain against raw and returns one error per failed rule.
func (v *Validator) Run(chain *Chain, raw any) []errs.FieldError {
	value := String(raw)

	var failures []errs.FieldError
	for _, r := range chain.rules {
		if v.passes(r, value) {
			continue
		}
		failures = append(failures, errs.FieldError{
			Type:     "field",
			Value:    raw,
			Msg:      r.message,
			Path:     chain.field,
			Location: chain.location,
		})
	}
	return failures
}

func (v *Validator) passes(r rule, value string) bool {
	if r.check != nil {
		return r.check(value)
	}
	return v.validate.Var(value, r.tag) == nil
}

// Check returns a handler running chains against the request. Failures are
// stored on the context and reported by HandleInputErrors.
func (v *Validator) Check(chains ...*Chain) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]any
		for _, chain := range chains {
			if chain.location != LocationBody {
				continue
			}
			parsed, err := parseBody(c)
			if err != nil {
				return errs.NewValidationError([]errs.FieldError{{
					Type:     "field",
					Msg:      MessageInvalidBody,
					Path:     LocationBody,
					Location: LocationBody,
				}})
			}
			body = parsed
			break
		}

		failures := Errors(c)
		for _, chain := range chains {
			var raw any
			switch chain.location {
			case LocationBody:
				raw = body[chain.field]
			case LocationParams:
				raw = c.Params(chain.field)
			}
			failures = append(failures, v.Run(chain, raw)...)
		}
		c.Locals(localsErrors, failures)

		return c.Next()
	}
}

// HandleInputErrors rejects the request with every collected failure, if any.
func HandleInputErrors(c *fiber.Ctx) error {
	if failures := Errors(c); len(failures) > 0 {
		return errs.NewValidationError(failures)
	}
	return c.Next()
}

// Errors returns the failures collected so far for the request.
func Errors(c *fiber.Ctx) []errs.FieldError {
	failures, _ := c.Locals(localsErrors).([]errs.FieldError)
	return failures
}

// ParsedBody returns the JSON body decoded by Check, or an empty map.
func ParsedBody(c *fiber.Ctx) map[string]any {
	if body, ok := c.Locals(localsBody).(map[string]any); ok {
		return body
	}
	return map[string]any{}
}

func parseBody(c *fiber.Ctx) (map[string]any, error) {
	if body, ok := c.Locals(localsBody).(map[string]any); ok {
		return body, nil
	}

	body := map[string]any{}
	if raw := bytes.TrimSpace(c.Body()); len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("decode request body: %w", err)
		}
	}
	c.Locals(localsBody, body)
	return body, nil
}

// String renders a decoded JSON value the way rules see it: missing and null
// become "", numbers keep their JSON text.
func String(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

// PositiveDecimal reports whether value parses as a decimal greater than zero.
func PositiveDecimal(value string) bool {
	d, err := decimal.NewFromString(value)
	return err == nil && d.IsPositive()
}
