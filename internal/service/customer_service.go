package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"
	"hilanderia-pos/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerInput struct {
	Name    string        `json:"name" validate:"required,max=255"`
	DNI     string        `json:"dni" validate:"dni"`
	Phone   string        `json:"phone" validate:"omitempty,max=20,numeric"`
	Profile model.Profile `json:"profile"`
}

type ImportFailure struct {
	Row   int    `json:"row"`
	DNI   string `json:"dni,omitempty"`
	Error string `json:"error"`
}

// ImportResult lists the created customers and the rows that failed.
type ImportResult struct {
	Created []model.Customer `json:"created"`
	Failed  []ImportFailure  `json:"failed,omitempty"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, in CustomerInput, actor string) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, in CustomerInput, actor string) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]model.Customer, error)
	ImportCustomers(ctx context.Context, rows []map[string]string, actor string) (*ImportResult, error)
	// SeedStaff creates the staff member or updates the one with that DNI.
	SeedStaff(ctx context.Context, in CustomerInput, actor string) (*model.Customer, error)
}

type customerService struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewCustomerService(store repository.Store, log *zap.Logger) CustomerService {
	return &customerService{store: store, log: log.Named("customers"), now: time.Now}
}

func (in *CustomerInput) clean() error {
	in.Name = strings.TrimSpace(in.Name)
	in.DNI = strings.TrimSpace(in.DNI)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validate(in); err != nil {
		return err
	}
	if !in.Profile.Valid() {
		return apperr.Invalid("unknown profile %q", in.Profile)
	}
	if in.Profile == model.ProfileNone {
		in.Profile = model.ProfileCustomer
	}
	return nil
}

func duplicate(err error, dni string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.ErrDuplicateID.With(dni)
	}
	return translate(err, dni)
}

func (s *customerService) CreateCustomer(ctx context.Context, in CustomerInput, actor string) (*model.Customer, error) {
	if err := in.clean(); err != nil {
		return nil, err
	}

	actor = actorOrSystem(actor)
	customer := &model.Customer{
		Name:         in.Name,
		DNI:          in.DNI,
		Phone:        in.Phone,
		Profile:      in.Profile,
		RegisteredAt: s.now(),
	}
	customer.CreatedBy = actor
	customer.UpdatedBy = actor

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Customers().FindByDNI(ctx, in.DNI); err == nil {
			return apperr.ErrDuplicateID.With(in.DNI)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return translate(err, in.DNI)
		}
		if err := tx.Customers().Create(ctx, customer); err != nil {
			return duplicate(err, in.DNI)
		}
		return translate(tx.Events().Create(ctx, &model.Event{
			Type:        model.EventCustomer,
			Description: fmt.Sprintf("Nuevo cliente registrado: %s", customer.Name),
			OccurredAt:  customer.RegisteredAt,
			Actor:       actor,
		}), "event")
	})
	if err != nil {
		s.log.Warn("create customer failed", zap.String("dni", in.DNI), zap.Error(err))
		return nil, err
	}

	s.log.Info("customer created", zap.String("customer_id", customer.ID.String()), zap.String("actor", actor))
	return customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id uuid.UUID, in CustomerInput, actor string) (*model.Customer, error) {
	if err := in.clean(); err != nil {
		return nil, err
	}

	var updated *model.Customer
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Customers().FindByID(ctx, id)
		if err != nil {
			return translate(err, id.String())
		}
		if other, err := tx.Customers().FindByDNI(ctx, in.DNI); err == nil && other.ID != id {
			return apperr.ErrDuplicateID.With(in.DNI)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return translate(err, in.DNI)
		}

		existing.Name = in.Name
		existing.DNI = in.DNI
		existing.Phone = in.Phone
		existing.Profile = in.Profile
		existing.UpdatedBy = actorOrSystem(actor)
		if err := tx.Customers().Update(ctx, existing); err != nil {
			return duplicate(err, in.DNI)
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("customer updated", zap.String("customer_id", id.String()))
	return updated, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Customers().Delete(ctx, id); err != nil {
		return translate(err, id.String())
	}
	s.log.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.store.Customers().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, id.String())
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	customers, err := s.store.Customers().FindAll(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, translate(err, "customers")
	}
	return customers, nil
}

// ImportCustomers creates the rows one by one. Rows that fail are reported
// and the call returns a PartialFailure along with the result.
func (s *customerService) ImportCustomers(ctx context.Context, rows []map[string]string, actor string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, apperr.Invalid("no rows to import")
	}

	result := &ImportResult{Created: []model.Customer{}}
	for i, row := range rows {
		in := CustomerInput{Name: row["nombre"], DNI: row["dni"], Phone: row["telefono"]}
		c, err := s.CreateCustomer(ctx, in, actor)
		if err != nil {
			result.Failed = append(result.Failed, ImportFailure{Row: i + 2, DNI: strings.TrimSpace(in.DNI), Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, *c)
	}

	s.log.Info("customer import finished", zap.Int("created", len(result.Created)), zap.Int("failed", len(result.Failed)))
	if len(result.Failed) > 0 {
		return result, apperr.Partial(len(result.Failed), len(rows))
	}
	return result, nil
}

func (s *customerService) SeedStaff(ctx context.Context, in CustomerInput, actor string) (*model.Customer, error) {
	if !in.Profile.Staff() {
		return nil, apperr.ErrProfileNotAllowed.With(string(in.Profile))
	}
	existing, err := s.store.Customers().FindByDNI(ctx, strings.TrimSpace(in.DNI))
	switch {
	case err == nil:
		if in.Phone == "" {
			in.Phone = existing.Phone
		}
		return s.UpdateCustomer(ctx, existing.ID, in, actor)
	case errors.Is(err, repository.ErrNotFound):
		return s.CreateCustomer(ctx, in, actor)
	default:
		return nil, translate(err, in.DNI)
	}
}
