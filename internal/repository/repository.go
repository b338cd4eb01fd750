package repository

import (
	"context"
	"errors"
	"time"

	"hilanderia-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate key")
	ErrStockConflict = errors.New("stock no longer covers the requested quantity")
)

// Store groups the repositories and is the unit a transaction is bound to.
type Store interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Sales() SaleRepository
	Events() EventRepository
	Reports() ReportRepository

	// Transaction runs fn against a Store bound to a single transaction.
	// A non-nil error from fn rolls back every write made through tx.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type ProductFilter struct {
	Search      string
	States      []model.ProductState
	InStockOnly bool
	OrderByName bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	CreateBatch(ctx context.Context, products []model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DecrementStock subtracts qty only if the current stock covers it,
	// otherwise it returns ErrStockConflict.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int, updatedBy string) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindAll(ctx context.Context, search string) ([]model.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByDNI(ctx context.Context, dni string) (*model.Customer, error)
	FindByNameAndDNI(ctx context.Context, name, dni string) (*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Search string
}

type SaleRepository interface {
	// Create stores the sale header only; items go through CreateItems.
	Create(ctx context.Context, sale *model.Sale) error
	CreateItems(ctx context.Context, items []model.SaleLineItem) error
	FindAll(ctx context.Context, filter SaleFilter) ([]model.Sale, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindRecent(ctx context.Context, limit int) ([]model.Event, error)
}

// DailySales for chart data
type DailySales struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// ProductSales for the best sellers ranking
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StateStock aggregates stock per lifecycle state
type StateStock struct {
	State model.ProductState `json:"state"`
	Stock int                `json:"stock"`
}

type ReportRepository interface {
	SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	StockByState(ctx context.Context) ([]StateStock, error)
}
