package handler

import (
	"go-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
	log     *zap.Logger
}

func NewProductHandler(s service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{service: s, log: log}
}

type StockAdjustmentRequest struct {
	Adjustment *int `json:"adjustment"` // positive adds, negative deducts
}

// GetProducts
// GET /api/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// GetProductByBarcode
// GET /api/products/barcode/:barcode
func (h *ProductHandler) GetProductByBarcode(c *fiber.Ctx) error {
	product, err := h.service.GetProductByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// GetProduct
// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": service.ErrProductNotFound.Error()})
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// CreateProduct
// POST /api/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct applies a partial update.
// PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": service.ErrProductNotFound.Error()})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// DeleteProduct
// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": service.ErrProductNotFound.Error()})
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// AdjustStock
// PATCH /api/products/:id/stock
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": service.ErrProductNotFound.Error()})
	}

	var req StockAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.Adjustment == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "adjustment is required"})
	}

	product, err := h.service.AdjustStock(c.UserContext(), id, *req.Adjustment)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}
