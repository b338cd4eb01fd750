package repository

import (
	"context"
	"strings"

	"hilanderia-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return translate(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepo) FindAll(ctx context.Context, search string) ([]model.Customer, error) {
	var customers []model.Customer
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where("LOWER(name) LIKE ? OR dni LIKE ? OR phone LIKE ?", pattern, likePattern(search), likePattern(search))
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, translate(err)
	}
	return customers, nil
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) FindByDNI(ctx context.Context, dni string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).Where("dni = ?", dni).First(&customer).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) FindByNameAndDNI(ctx context.Context, name, dni string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).Where("name = ? AND dni = ?", name, dni).First(&customer).Error; err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	return translate(r.db.WithContext(ctx).Save(customer).Error)
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
