package handler

import (
	"hilanderia-pos/internal/middleware"
	"hilanderia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Customer  *CustomerHandler
	Sale      *SaleHandler
	Dashboard *DashboardHandler
}

func NewHandlers(s *service.Services) Handlers {
	return Handlers{
		Auth:      NewAuthHandler(s.Auth),
		Inventory: NewInventoryHandler(s.Inventory, s.Reports),
		Customer:  NewCustomerHandler(s.Customers, s.Reports),
		Sale:      NewSaleHandler(s.Sales, s.Reports),
		Dashboard: NewDashboardHandler(s.Dashboard, s.Reports),
	}
}

// RegisterRoutes mounts the /api/v1 routes on app
func RegisterRoutes(app fiber.Router, h Handlers, auth service.AuthService) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/validate-token", h.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(auth))
	protected.Get("/auth/me", h.Auth.Me)

	// Dashboard
	protected.Get("/dashboard/metrics", h.Dashboard.GetMetrics)
	protected.Get("/dashboard/events", h.Dashboard.GetEvents)
	protected.Get("/dashboard/export", h.Dashboard.Export)

	// Customers (static paths before :id)
	protected.Get("/customers", h.Customer.GetCustomers)
	protected.Post("/customers", h.Customer.CreateCustomer)
	protected.Post("/customers/import", h.Customer.ImportCustomers)
	protected.Get("/customers/export", h.Customer.Export)
	protected.Get("/customers/template", h.Customer.Template)
	protected.Get("/customers/:id", h.Customer.GetCustomer)
	protected.Put("/customers/:id", h.Customer.UpdateCustomer)
	protected.Delete("/customers/:id", h.Customer.DeleteCustomer)

	// Products
	protected.Get("/products", h.Inventory.GetProducts)
	protected.Post("/products", h.Inventory.CreateProduct)
	protected.Get("/products/sellable", h.Inventory.GetSellable)
	protected.Get("/products/summary", h.Inventory.Summary)
	protected.Get("/products/export", h.Inventory.Export)
	protected.Get("/products/template", h.Inventory.Template)
	protected.Post("/products/intake", h.Inventory.RegisterIntake)
	protected.Post("/products/derive", h.Inventory.Derive)
	protected.Post("/products/import", h.Inventory.ImportProducts)
	protected.Get("/products/:id", h.Inventory.GetProduct)
	protected.Put("/products/:id", h.Inventory.UpdateProduct)
	protected.Delete("/products/:id", h.Inventory.DeleteProduct)
	protected.Post("/products/:id/process", h.Inventory.ProcessBatch)

	// Sales
	protected.Post("/sales/quote", h.Sale.Quote)
	protected.Post("/sales", h.Sale.Checkout)
	protected.Get("/sales", h.Sale.GetSales)
	protected.Get("/sales/export", h.Sale.Export)
	protected.Get("/sales/:id", h.Sale.GetSale)
	protected.Get("/sales/:id/receipt", h.Sale.Receipt)
}
