package handler

import (
	"errors"

	"hilanderia-pos/internal/service"
	"hilanderia-pos/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
	reports service.ReportService
}

func NewCustomerHandler(s service.CustomerService, r service.ReportService) *CustomerHandler {
	return &CustomerHandler{service: s, reports: r}
}

// GET /api/v1/customers?q=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.service.ListCustomers(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customers)
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(customer)
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), req, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	var req service.CustomerInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, req, getStaffName(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid customer ID")
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

// ImportCustomers answers 207 with the per-row failures when some rows fail
// POST /api/v1/customers/import
func (h *CustomerHandler) ImportCustomers(c *fiber.Ctx) error {
	rows, err := readUpload(c)
	if err != nil {
		return fail(c, err)
	}
	result, err := h.service.ImportCustomers(c.UserContext(), rows, getStaffName(c))
	if err != nil && !errors.Is(err, apperr.PartialFailure) {
		return fail(c, err)
	}
	if err != nil {
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{"error": err.Error(), "data": result})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customers imported", "data": result})
}

func (h *CustomerHandler) Export(c *fiber.Ctx) error {
	f, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		return fail(c, err)
	}
	a, err := h.reports.ExportCustomers(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, a)
}

func (h *CustomerHandler) Template(c *fiber.Ctx) error {
	a, err := h.reports.CustomerTemplate()
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, a)
}
