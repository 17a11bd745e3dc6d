package handler

import (
	"go-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SalesHandler struct {
	service service.SalesService
	log     *zap.Logger
}

func NewSalesHandler(s service.SalesService, log *zap.Logger) *SalesHandler {
	return &SalesHandler{service: s, log: log}
}

// GetSales lists transactions, optionally filtered by ?date=YYYY-MM-DD and ?status=
// GET /api/sales
func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext(), service.SalesFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sales)
}

// GetSale returns one transaction with its items.
// GET /api/sales/:id
func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	sale, err := h.service.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(sale)
}

// CreateSale
// POST /api/sales
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	sale, err := h.service.CreateSale(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// VoidSale
// DELETE /api/sales/:id
func (h *SalesHandler) VoidSale(c *fiber.Ctx) error {
	if err := h.service.VoidSale(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction voided successfully"})
}

// HoldBill
// POST /api/sales/hold
func (h *SalesHandler) HoldBill(c *fiber.Ctx) error {
	var req service.HoldBillRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	id, err := h.service.HoldBill(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "Bill held successfully"})
}

// GetHeldBills
// GET /api/sales/held/all
func (h *SalesHandler) GetHeldBills(c *fiber.Ctx) error {
	bills, err := h.service.ListHeldBills(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(bills)
}

// GetHeldBill
// GET /api/sales/held/:id
func (h *SalesHandler) GetHeldBill(c *fiber.Ctx) error {
	bill, err := h.service.GetHeldBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(bill)
}

// DeleteHeldBill
// DELETE /api/sales/held/:id
func (h *SalesHandler) DeleteHeldBill(c *fiber.Ctx) error {
	if err := h.service.DeleteHeldBill(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Held bill deleted successfully"})
}
