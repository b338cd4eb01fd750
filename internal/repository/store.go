package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore returns the GORM backed Store. The *gorm.DB should be opened with
// TranslateError enabled so unique violations surface as ErrDuplicate.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Products() ProductRepository   { return NewProductRepo(s.db) }
func (s *gormStore) Customers() CustomerRepository { return NewCustomerRepo(s.db) }
func (s *gormStore) Sales() SaleRepository         { return NewSaleRepo(s.db) }
func (s *gormStore) Events() EventRepository       { return NewEventRepo(s.db) }
func (s *gormStore) Reports() ReportRepository     { return NewReportRepo(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// translate maps GORM sentinel errors onto the repository ones
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func likePattern(s string) string {
	return "%" + s + "%"
}
