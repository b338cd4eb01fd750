package handler

import (
	"errors"
	"fmt"
	"time"

	"hilanderia-pos/internal/service"
	"hilanderia-pos/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrProfileNotAllowed):
		return fiber.StatusForbidden
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindState:
		return fiber.StatusConflict
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindPartialFailure:
		return fiber.StatusMultiStatus
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	body := fiber.Map{"error": err.Error()}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body["code"] = appErr.Code
		if appErr.Entity != "" {
			body["entity"] = appErr.Entity
		}
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// Helper untuk ambil staff info dari JWT context (set by auth middleware)
func getStaffName(c *fiber.Ctx) string {
	name, ok := c.Locals("staff_name").(string)
	if !ok || name == "" {
		return "system"
	}
	return name
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// parseDate reads a YYYY-MM-DD query parameter in local time.
func parseDate(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date, use YYYY-MM-DD", key)
	}
	return &t, nil
}

func parseSaleQuery(c *fiber.Ctx) (service.SaleQuery, error) {
	from, err := parseDate(c, "from")
	if err != nil {
		return service.SaleQuery{}, err
	}
	to, err := parseDate(c, "to")
	if err != nil {
		return service.SaleQuery{}, err
	}
	return service.SaleQuery{From: from, To: to, Search: c.Query("q")}, nil
}

func sendArtifact(c *fiber.Ctx, a *service.Artifact) error {
	c.Set(fiber.HeaderContentType, a.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", a.Filename))
	return c.Send(a.Body)
}

var errMissingFile = apperr.Invalid(`a spreadsheet must be sent in the "file" form field`)
