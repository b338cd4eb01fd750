package handler

import (
	"strconv"

	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	service service.InventoryService
	reports service.ReportService
}

func NewInventoryHandler(s service.InventoryService, r service.ReportService) *InventoryHandler {
	return &InventoryHandler{service: s, reports: r}
}

// GET /api/v1/products?q=&state=&in_stock=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), service.ProductQuery{
		Search:      c.Query("q"),
		State:       model.ProductState(c.Query("state")),
		InStockOnly: c.QueryBool("in_stock", false),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetSellable(c *fiber.Ctx) error {
	products, err := h.service.ListSellable(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), req, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, req, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, getStaffName(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// RegisterIntake records a dye-house delivery
// POST /api/v1/products/intake
func (h *InventoryHandler) RegisterIntake(c *fiber.Ctx) error {
	var req service.IntakeInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.RegisterIntake(c.UserContext(), req, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Intake registered", "data": product})
}

// ProcessBatch moves raw quantity into cones
// POST /api/v1/products/:id/process
func (h *InventoryHandler) ProcessBatch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}
	var req service.ProcessBatchInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.SourceID = id

	outcome, err := h.service.ProcessBatch(c.UserContext(), req, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(outcome)
}

type deriveRequest struct {
	Quantity  int              `json:"quantity"`
	BasePrice decimal.Decimal  `json:"base_price"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// Derive previews stock and unit price for a batch size
// POST /api/v1/products/derive
func (h *InventoryHandler) Derive(c *fiber.Ctx) error {
	var req deriveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	fields, err := service.ComputeDerivedFields(req.Quantity, req.BasePrice, req.UnitPrice)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fields)
}

func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.service.Summary(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sum)
}

// ImportProducts loads a template workbook sent as the "file" form field
// POST /api/v1/products/import
func (h *InventoryHandler) ImportProducts(c *fiber.Ctx) error {
	rows, err := readUpload(c)
	if err != nil {
		return fail(c, err)
	}
	created, err := h.service.ImportProducts(c.UserContext(), rows, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": strconv.Itoa(len(created)) + " products imported",
		"data":    created,
	})
}

func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	f, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		return fail(c, err)
	}
	a, err := h.reports.ExportProducts(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, a)
}

func (h *InventoryHandler) Template(c *fiber.Ctx) error {
	a, err := h.reports.ProductTemplate()
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, a)
}

func readUpload(c *fiber.Ctx) ([]map[string]string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errMissingFile
	}
	defer f.Close()
	return export.ReadSheet(f)
}
