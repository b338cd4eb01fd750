package repository

import (
	"context"
	"time"

	"hilanderia-pos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("sold_at >= ?", since).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, translate(err)
}

// DailySales aggregates sale totals per calendar day
func (r *reportRepo) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`
			DATE(sold_at) as day,
			COALESCE(SUM(total), 0) as total,
			COUNT(*) as count
		`).
		Where("sold_at BETWEEN ? AND ?", from, to).
		Group("DATE(sold_at)").
		Order("day ASC").
		Rows()
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var results []DailySales
	for rows.Next() {
		var (
			day  time.Time
			data DailySales
		)
		if err := rows.Scan(&day, &data.Total, &data.Count); err != nil {
			return nil, err
		}
		data.Date = day.Format("2006-01-02")
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *reportRepo) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	var results []ProductSales
	err := r.db.WithContext(ctx).Table("sale_line_items").
		Select("products.name as name, COALESCE(SUM(sale_line_items.quantity), 0) as quantity").
		Joins("JOIN products ON products.id = sale_line_items.product_id").
		Where("sale_line_items.deleted_at IS NULL").
		Group("products.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&results).Error
	return results, translate(err)
}

func (r *reportRepo) StockByState(ctx context.Context) ([]StateStock, error) {
	var results []StateStock
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("state, COALESCE(SUM(stock), 0) as stock").
		Group("state").
		Order("state ASC").
		Scan(&results).Error
	return results, translate(err)
}
