package handler

import (
	"fmt"

	"hilanderia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
	reports service.ReportService
}

func NewSaleHandler(s service.SaleService, r service.ReportService) *SaleHandler {
	return &SaleHandler{service: s, reports: r}
}

type quoteRequest struct {
	Items []service.CartLine `json:"items"`
}

// Quote prices a cart without selling it
// POST /api/v1/sales/quote
func (h *SaleHandler) Quote(c *fiber.Ctx) error {
	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	quote, err := h.service.Quote(c.UserContext(), req.Items)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(quote)
}

// Checkout sells the cart; the seller is the logged in staff member
// POST /api/v1/sales
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.Seller = getStaffName(c)

	sale, err := h.service.Checkout(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale completed", "data": sale})
}

// GET /api/v1/sales?from=YYYY-MM-DD&to=YYYY-MM-DD&q=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	q, err := parseSaleQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	sales, err := h.service.ListSales(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid sale ID")
	}
	sale, err := h.service.GetSale(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sale)
}

// Receipt streams the boleta pdf
// GET /api/v1/sales/:id/receipt
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid sale ID")
	}
	pdf, sale, err := h.service.Receipt(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, &service.Artifact{
		Filename:    fmt.Sprintf("boleta-%s.pdf", sale.ID),
		ContentType: service.FormatPDF.ContentType(),
		Body:        pdf,
	})
}

func (h *SaleHandler) Export(c *fiber.Ctx) error {
	f, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		return fail(c, err)
	}
	q, err := parseSaleQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	a, err := h.reports.ExportSales(c.UserContext(), f, q)
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, a)
}
