// Package docs serves the API documentation: an OpenAPI 3 document and a
// Swagger UI page that renders it.
package docs

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

var (
	//go:embed static/openapi.json
	openAPISpec []byte

	//go:embed static/index.html
	uiPage []byte
)

// Register mounts the UI at prefix and the document at prefix + "/openapi.json".
func Register(router fiber.Router, prefix string) {
	router.Get(prefix, serveUI)
	router.Get(prefix+"/openapi.json", serveSpec)
}

// OpenAPISpec returns the raw OpenAPI document.
func OpenAPISpec() []byte {
	return openAPISpec
}

func serveUI(c *fiber.Ctx) error {
	// Docs change with every deploy.
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Type("html", "utf-8")
	return c.Send(uiPage)
}

func serveSpec(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Type("json", "utf-8")
	return c.Send(openAPISpec)
}
