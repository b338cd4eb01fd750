package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository/memory"
	"hilanderia-pos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardMetrics(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sales := NewSaleService(store, nil, export.Company{}, zap.NewNop()).(*saleService)
	customer := seedCustomer(t, store, "Rosa", "11223344", model.ProfileNone)
	rojo := seedCone(t, store, "Cono Rojo", "5.00", 50)
	azul := seedCone(t, store, "Cono Azul", "2.00", 50)
	seedRaw(t, store, "Verde", 8)

	today := time.Date(2024, 5, 20, 15, 0, 0, 0, time.Local)
	sell := func(at time.Time, p *model.Product, qty int) {
		sales.now = func() time.Time { return at }
		_, err := sales.Checkout(ctx, CheckoutInput{CustomerID: customer.ID, Lines: []CartLine{{ProductID: p.ID, Quantity: qty}}, Seller: "Ana"})
		require.NoError(t, err)
	}
	sell(today, rojo, 2)
	sell(today.AddDate(0, 0, -2), azul, 5)
	sell(today.AddDate(0, -1, 0), rojo, 1)

	dash := NewDashboardService(store).(*dashboardService)
	dash.now = func() time.Time { return today }

	m, err := dash.GetMetrics(ctx)
	require.NoError(t, err)
	assert.True(t, m.MonthTotal.Equal(dec("20.00")), m.MonthTotal.String())

	require.Len(t, m.Last7Days, 7)
	assert.Equal(t, "2024-05-14", m.Last7Days[0].Date)
	assert.Equal(t, "2024-05-20", m.Last7Days[6].Date)
	assert.True(t, m.Last7Days[6].Total.Equal(dec("10.00")))
	assert.True(t, m.Last7Days[4].Total.Equal(dec("10.00")))
	assert.True(t, m.Last7Days[5].Total.IsZero())

	require.Len(t, m.TopProducts, 2)
	assert.Equal(t, "Cono Azul", m.TopProducts[0].Name)
	assert.Equal(t, 5, m.TopProducts[0].Quantity)

	require.Len(t, m.StockByState, 3)
	assert.Equal(t, model.StateRawMaterial, m.StockByState[0].State)
	assert.Equal(t, 92, m.StockByState[1].Stock)
}

func TestRecentEventsLimit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	for i := 0; i < 15; i++ {
		require.NoError(t, store.Events().Create(ctx, &model.Event{Type: model.EventInventory, Description: fmt.Sprintf("evento %d", i)}))
	}
	dash := NewDashboardService(store)

	events, err := dash.RecentEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 10)
	assert.Equal(t, "evento 14", events[0].Description)

	events, err = dash.RecentEvents(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestReportExports(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	log := zap.NewNop()
	inv := NewInventoryService(store, nil, log)
	cust := NewCustomerService(store, log)
	sales := NewSaleService(store, nil, export.Company{}, log)
	reports := NewReportService(inv, cust, sales, NewDashboardService(store), log)

	c := seedCustomer(t, store, "Rosa", "11223344", model.ProfileNone)
	p := seedCone(t, store, "Cono Rojo", "5.00", 5)
	_, err := sales.Checkout(ctx, CheckoutInput{CustomerID: c.ID, Lines: []CartLine{{ProductID: p.ID, Quantity: 1}}, Seller: "Ana"})
	require.NoError(t, err)

	xlsx, err := reports.ExportSales(ctx, FormatExcel, SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, FormatExcel.ContentType(), xlsx.ContentType)
	rows, err := export.ReadSheet(bytes.NewReader(xlsx.Body))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rosa", rows[0]["cliente"])

	for _, f := range []Format{FormatExcel, FormatPDF} {
		for name, fn := range map[string]func(context.Context, Format) (*Artifact, error){
			"products":  reports.ExportProducts,
			"customers": reports.ExportCustomers,
			"metrics":   reports.ExportMetrics,
		} {
			a, err := fn(ctx, f)
			require.NoError(t, err, name)
			assert.NotEmpty(t, a.Body, name)
			assert.Contains(t, a.Filename, "."+string(f))
		}
	}

	tpl, err := reports.ProductTemplate()
	require.NoError(t, err)
	assert.Equal(t, "plantilla-productos.xlsx", tpl.Filename)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)

	f, err = ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, apperr.Validation)
}
