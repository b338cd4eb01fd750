package service

import (
	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/repository"
	"hilanderia-pos/pkg/jwt"

	"go.uber.org/zap"
)

// Services wires every use case against one store
type Services struct {
	Inventory InventoryService
	Sales     SaleService
	Customers CustomerService
	Auth      AuthService
	Dashboard DashboardService
	Reports   ReportService
}

func NewServices(store repository.Store, tokens *jwt.Manager, notifier Notifier, company export.Company, log *zap.Logger) *Services {
	s := &Services{
		Inventory: NewInventoryService(store, notifier, log),
		Sales:     NewSaleService(store, notifier, company, log),
		Customers: NewCustomerService(store, log),
		Auth:      NewAuthService(store, tokens, notifier, log),
		Dashboard: NewDashboardService(store),
	}
	s.Reports = NewReportService(s.Inventory, s.Customers, s.Sales, s.Dashboard, log)
	return s
}
