package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"productapi/internal/errs"
	"productapi/internal/repositories"
	"productapi/internal/services"
	"productapi/internal/validation"
)

// Validation messages.
const (
	MsgInvalidID           = "ID no válido"
	MsgEmptyName           = "El nombre del producto no puede ir vacio"
	MsgInvalidPrice        = "Valor no válido"
	MsgEmptyPrice          = "El precio del producto no puede ir vacio"
	MsgNonPositivePrice    = "Precio no válido"
	MsgInvalidAvailability = "Valor para disponibilidad no válido"

	MsgProductDeleted = "Producto Eliminado"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service   *services.ProductService
	validator *validation.Validator
	log       zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validator: validation.New(),
		log:       log,
	}
}

func idRule() *validation.Chain {
	return validation.ParamField("id").Is("number", MsgInvalidID)
}

func nameRule() *validation.Chain {
	return validation.BodyField("name").Is("required", MsgEmptyName)
}

func priceRule() *validation.Chain {
	return validation.BodyField("price").
		Is("numeric", MsgInvalidPrice).
		Is("required", MsgEmptyPrice).
		Custom(validation.PositiveDecimal, MsgNonPositivePrice)
}

func availabilityRule() *validation.Chain {
	return validation.BodyField("availability").Is("boolean", MsgInvalidAvailability)
}

// RegisterRoutes registers the product routes under /products.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	check := h.validator.Check
	productRoutes := router.Group("/products")

	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", check(idRule()), validation.HandleInputErrors, h.HandleGetProductByID)
	productRoutes.Post("/", check(nameRule(), priceRule()), validation.HandleInputErrors, h.HandleCreateProduct)
	productRoutes.Put("/:id",
		check(idRule(), nameRule(), priceRule(), availabilityRule()),
		validation.HandleInputErrors,
		h.HandleUpdateProduct)
	productRoutes.Patch("/:id", check(idRule()), validation.HandleInputErrors, h.HandleUpdateAvailability)
	productRoutes.Delete("/:id", check(idRule()), validation.HandleInputErrors, h.HandleDeleteProduct)
}

// HandleGetProducts lists all products, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(errs.Data(products))
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), productID(c))
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(errs.Data(product))
}

// HandleCreateProduct creates an available product from name and price.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product, err := h.service.CreateProduct(c.UserContext(), productInput(c))
	if err != nil {
		return h.failure(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(errs.Data(product))
}

// HandleUpdateProduct replaces name, price and availability of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	product, err := h.service.UpdateProduct(c.UserContext(), productID(c), productInput(c))
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(errs.Data(product))
}

// HandleUpdateAvailability toggles the availability of an existing product.
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	product, err := h.service.ToggleAvailability(c.UserContext(), productID(c))
	if err != nil {
		return h.failure(c, err)
	}
	return c.JSON(errs.Data(product))
}

// HandleDeleteProduct deletes an existing product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), productID(c)); err != nil {
		return h.failure(c, err)
	}
	return c.JSON(errs.Data(MsgProductDeleted))
}

// failure maps service errors to the HTTP errors rendered by the server's error handler.
func (h *ProductHandler) failure(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return errs.NewNotFoundError()
	}
	h.log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("product request failed")
	return errs.NewInternalError()
}

// productID reads the id route param. It has already passed the id rule.
func productID(c *fiber.Ctx) uint {
	id, _ := strconv.ParseUint(c.Params("id"), 10, 0)
	return uint(id)
}

// productInput reads the validated body fields.
func productInput(c *fiber.Ctx) services.ProductInput {
	body := validation.ParsedBody(c)

	price, _ := decimal.NewFromString(validation.String(body["price"]))
	availability, _ := strconv.ParseBool(validation.String(body["availability"]))

	return services.ProductInput{
		Name:         validation.String(body["name"]),
		Price:        price,
		Availability: availability,
	}
}
