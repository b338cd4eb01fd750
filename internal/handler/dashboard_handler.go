package handler

import (
	"hilanderia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	reports service.ReportService
}

func NewDashboardHandler(s service.DashboardService, r service.ReportService) *DashboardHandler {
	return &DashboardHandler{service: s, reports: r}
}

// GetMetrics returns month total, last 7 days, best sellers and stock per state
// GET /api/v1/dashboard/metrics
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	metrics, err := h.service.GetMetrics(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(metrics)
}

// GET /api/v1/dashboard/events?limit=10
func (h *DashboardHandler) GetEvents(c *fiber.Ctx) error {
	events, err := h.service.RecentEvents(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(events)
}

func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	f, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		return fail(c, err)
	}
	a, err := h.reports.ExportMetrics(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	return sendArtifact(c, a)
}
