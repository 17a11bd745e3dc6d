package handler

import (
	"bytes"
	"strconv"

	"go-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service service.ReportService
	log     *zap.Logger
}

func NewReportHandler(s service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: log}
}

// GetDaily returns the summary for ?date=YYYY-MM-DD (default today)
// GET /api/reports/daily
func (h *ReportHandler) GetDaily(c *fiber.Ctx) error {
	report, err := h.service.Daily(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(report)
}

// GetMonthly
// GET /api/reports/monthly?year=&month=
func (h *ReportHandler) GetMonthly(c *fiber.Ctx) error {
	report, err := h.service.Monthly(c.UserContext(), c.QueryInt("year"), c.QueryInt("month"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(report)
}

// GetTopProducts
// GET /api/reports/top-products?limit=10&days=30
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	products, err := h.service.TopProducts(c.UserContext(), c.QueryInt("limit", 10), c.QueryInt("days", 30))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// GetLowStock
// GET /api/reports/low-stock?threshold=
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "threshold must be an integer"})
		}
		threshold = &n
	}

	products, err := h.service.LowStock(c.UserContext(), threshold)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// Export downloads completed transactions as CSV.
// GET /api/reports/export?start_date=&end_date=
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(c.UserContext(), c.Query("start_date"), c.Query("end_date"), &buf); err != nil {
		return respondError(c, h.log, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=transactions.csv")
	return c.Send(buf.Bytes())
}
