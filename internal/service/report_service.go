package service

import (
	"context"
	"strings"

	"hilanderia-pos/internal/export"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/currency"

	"go.uber.org/zap"
)

type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// ParseFormat accepts "xlsx" (also "excel") and "pdf"; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", apperr.Invalid("unsupported format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Artifact is a rendered download.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ReportService interface {
	ExportProducts(ctx context.Context, f Format) (*Artifact, error)
	ExportCustomers(ctx context.Context, f Format) (*Artifact, error)
	ExportSales(ctx context.Context, f Format, q SaleQuery) (*Artifact, error)
	ExportMetrics(ctx context.Context, f Format) (*Artifact, error)
	ProductTemplate() (*Artifact, error)
	CustomerTemplate() (*Artifact, error)
}

type reportService struct {
	inventory InventoryService
	customers CustomerService
	sales     SaleService
	dashboard DashboardService
	log       *zap.Logger
}

func NewReportService(inv InventoryService, cust CustomerService, sales SaleService, dash DashboardService, log *zap.Logger) ReportService {
	return &reportService{inventory: inv, customers: cust, sales: sales, dashboard: dash, log: log.Named("reports")}
}

func (s *reportService) render(t export.Table, base string, f Format) (*Artifact, error) {
	var (
		body []byte
		err  error
	)
	if f == FormatPDF {
		body, err = export.PDF(t)
	} else {
		body, err = export.Excel(t)
	}
	if err != nil {
		s.log.Error("report rendering failed", zap.String("report", base), zap.Error(err))
		return nil, err
	}
	return &Artifact{Filename: export.Filename(base, string(f)), ContentType: f.ContentType(), Body: body}, nil
}

func (s *reportService) ExportProducts(ctx context.Context, f Format) (*Artifact, error) {
	products, err := s.inventory.ListProducts(ctx, ProductQuery{})
	if err != nil {
		return nil, err
	}
	t := export.Table{
		Title:   "Reporte de Productos",
		Sheet:   "Productos",
		Columns: []string{"Nombre", "Color", "Estado", "Precio Base", "Precio Unitario", "Stock", "Cantidad Bruta", "Fecha Ingreso"},
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []interface{}{p.Name, p.Color, string(p.State), p.BasePrice, p.UnitPrice, p.Stock, p.Quantity(), p.IngestedAt})
	}
	return s.render(t, "productos", f)
}

func (s *reportService) ExportCustomers(ctx context.Context, f Format) (*Artifact, error) {
	customers, err := s.customers.ListCustomers(ctx, "")
	if err != nil {
		return nil, err
	}
	t := export.Table{
		Title:   "Reporte de Clientes",
		Sheet:   "Clientes",
		Columns: []string{"Nombre", "DNI", "Teléfono", "Perfil", "Fecha Registro"},
	}
	for _, c := range customers {
		t.Rows = append(t.Rows, []interface{}{c.Name, c.DNI, c.Phone, string(c.Profile), c.RegisteredAt})
	}
	return s.render(t, "clientes", f)
}

func (s *reportService) ExportSales(ctx context.Context, f Format, q SaleQuery) (*Artifact, error) {
	sales, err := s.sales.ListSales(ctx, q)
	if err != nil {
		return nil, err
	}
	t := export.Table{
		Title:   "Historial de Ventas",
		Sheet:   "Ventas",
		Columns: []string{"Fecha", "Cliente", "DNI", "Vendedor", "Productos", "Total", "Código"},
	}
	for _, sale := range sales {
		name, dni := "", ""
		if sale.Customer != nil {
			name, dni = sale.Customer.Name, sale.Customer.DNI
		}
		units := 0
		for _, it := range sale.Items {
			units += it.Quantity
		}
		t.Rows = append(t.Rows, []interface{}{sale.SoldAt, name, dni, sale.Seller, units, sale.Total, sale.TransactionCode})
	}
	return s.render(t, "ventas", f)
}

func (s *reportService) ExportMetrics(ctx context.Context, f Format) (*Artifact, error) {
	m, err := s.dashboard.GetMetrics(ctx)
	if err != nil {
		return nil, err
	}
	t := export.Table{
		Title:   "Métricas de Ventas",
		Sheet:   "Metricas",
		Columns: []string{"Métrica", "Detalle", "Valor"},
	}
	t.Rows = append(t.Rows, []interface{}{"Ventas del mes", "", currency.Format(m.MonthTotal)})
	for _, d := range m.Last7Days {
		t.Rows = append(t.Rows, []interface{}{"Ventas por día", d.Date, currency.Format(d.Total)})
	}
	for _, p := range m.TopProducts {
		t.Rows = append(t.Rows, []interface{}{"Producto más vendido", p.Name, p.Quantity})
	}
	for _, st := range m.StockByState {
		t.Rows = append(t.Rows, []interface{}{"Stock por estado", string(st.State), st.Stock})
	}
	return s.render(t, "metricas", f)
}

func (s *reportService) ProductTemplate() (*Artifact, error) {
	body, err := export.ProductTemplate()
	if err != nil {
		return nil, err
	}
	return &Artifact{Filename: "plantilla-productos.xlsx", ContentType: FormatExcel.ContentType(), Body: body}, nil
}

func (s *reportService) CustomerTemplate() (*Artifact, error) {
	body, err := export.CustomerTemplate()
	if err != nil {
		return nil, err
	}
	return &Artifact{Filename: "plantilla-clientes.xlsx", ContentType: FormatExcel.ContentType(), Body: body}, nil
}
