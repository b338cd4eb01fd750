package repository

import (
	"context"
	"strings"

	"hilanderia-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(ctx context.Context, sale *model.Sale) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error)
}

func (r *saleRepo) CreateItems(ctx context.Context, items []model.SaleLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error)
}

// withDetails preloads customer and items. Products are loaded unscoped so
// that history keeps showing names of deleted products.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Items").
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (r *saleRepo) FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error) {
	var sales []model.Sale
	query := withDetails(r.db.WithContext(ctx).Model(&model.Sale{})).Select("sales.*")

	if filter.From != nil {
		query = query.Where("sales.sold_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("sales.sold_at <= ?", *filter.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.
			Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
			Where("LOWER(customers.name) LIKE ? OR customers.dni LIKE ? OR LOWER(sales.seller) LIKE ?",
				pattern, likePattern(search), pattern)
	}

	if err := query.Order("sales.sold_at DESC").Find(&sales).Error; err != nil {
		return nil, translate(err)
	}
	return sales, nil
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := withDetails(r.db.WithContext(ctx)).First(&sale, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}
