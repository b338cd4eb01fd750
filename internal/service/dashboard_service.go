package service

import (
	"context"
	"time"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	defaultEventLimit = 10
	maxEventLimit     = 100
	chartDays         = 7
	topProductsLimit  = 5
)

type DashboardMetrics struct {
	MonthTotal   decimal.Decimal           `json:"month_total"`
	Last7Days    []repository.DailySales   `json:"last_7_days"`
	TopProducts  []repository.ProductSales `json:"top_products"`
	StockByState []repository.StateStock   `json:"stock_by_state"`
}

type DashboardService interface {
	GetMetrics(ctx context.Context) (*DashboardMetrics, error)
	RecentEvents(ctx context.Context, limit int) ([]model.Event, error)
}

type dashboardService struct {
	reports func() repository.ReportRepository
	events  func() repository.EventRepository
	now     func() time.Time
}

func NewDashboardService(store repository.Store) DashboardService {
	return &dashboardService{reports: store.Reports, events: store.Events, now: time.Now}
}

// GetMetrics returns the month-to-date total, a zero-filled per-day series
// for the last seven days, the best sellers and the stock per state.
func (s *dashboardService) GetMetrics(ctx context.Context) (*DashboardMetrics, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := startOfDay(now).AddDate(0, 0, -(chartDays - 1))

	total, err := s.reports().SalesTotalSince(ctx, monthStart)
	if err != nil {
		return nil, translate(err, "reports")
	}
	daily, err := s.reports().DailySales(ctx, from, now)
	if err != nil {
		return nil, translate(err, "reports")
	}
	top, err := s.reports().TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, translate(err, "reports")
	}
	stock, err := s.reports().StockByState(ctx)
	if err != nil {
		return nil, translate(err, "reports")
	}

	return &DashboardMetrics{
		MonthTotal:   total,
		Last7Days:    fillDays(daily, from, chartDays),
		TopProducts:  top,
		StockByState: fillStates(stock),
	}, nil
}

func fillDays(rows []repository.DailySales, from time.Time, days int) []repository.DailySales {
	byDate := make(map[string]repository.DailySales, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}
	out := make([]repository.DailySales, 0, days)
	for i := 0; i < days; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		row, ok := byDate[key]
		if !ok {
			row = repository.DailySales{Date: key, Total: decimal.Zero}
		}
		out = append(out, row)
	}
	return out
}

func fillStates(rows []repository.StateStock) []repository.StateStock {
	byState := make(map[model.ProductState]int, len(rows))
	for _, r := range rows {
		byState[r.State] = r.Stock
	}
	out := make([]repository.StateStock, 0, len(model.ProductStates))
	for _, st := range model.ProductStates {
		out = append(out, repository.StateStock{State: st, Stock: byState[st]})
	}
	return out
}

func (s *dashboardService) RecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	events, err := s.events().FindRecent(ctx, limit)
	if err != nil {
		return nil, translate(err, "events")
	}
	return events, nil
}
