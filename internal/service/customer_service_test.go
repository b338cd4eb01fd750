package service

import (
	"context"
	"testing"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository/memory"
	"hilanderia-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCustomers(t *testing.T) (*memory.Store, CustomerService) {
	t.Helper()
	store := memory.New()
	return store, NewCustomerService(store, zap.NewNop())
}

func TestCreateCustomer(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomers(t)

	c, err := svc.CreateCustomer(ctx, CustomerInput{Name: " María González ", DNI: "87654321", Phone: "876543210"}, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "María González", c.Name)
	assert.False(t, c.RegisteredAt.IsZero())

	events, _ := store.Events().FindRecent(ctx, 10)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventCustomer, events[0].Type)

	_, err = svc.CreateCustomer(ctx, CustomerInput{Name: "Otra", DNI: "87654321"}, "Ana")
	assert.ErrorIs(t, err, apperr.ErrDuplicateID)

	for _, dni := range []string{"1234567", "123456789", "1234567a", ""} {
		_, err = svc.CreateCustomer(ctx, CustomerInput{Name: "X", DNI: dni}, "Ana")
		assert.ErrorIs(t, err, apperr.Validation, dni)
	}

	_, err = svc.CreateCustomer(ctx, CustomerInput{Name: "X", DNI: "11111111", Profile: "Gerente"}, "Ana")
	assert.ErrorIs(t, err, apperr.Validation)
}

func TestUpdateCustomerKeepsDNIUnique(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomers(t)
	a := seedCustomer(t, store, "Ana", "11111111", model.ProfileNone)
	seedCustomer(t, store, "Beto", "22222222", model.ProfileNone)

	_, err := svc.UpdateCustomer(ctx, a.ID, CustomerInput{Name: "Ana", DNI: "22222222"}, "x")
	assert.ErrorIs(t, err, apperr.ErrDuplicateID)

	updated, err := svc.UpdateCustomer(ctx, a.ID, CustomerInput{Name: "Ana María", DNI: "11111111", Phone: "999"}, "x")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)

	_, err = svc.UpdateCustomer(ctx, uuid.New(), CustomerInput{Name: "N", DNI: "33333333"}, "x")
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestListAndDeleteCustomers(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomers(t)
	a := seedCustomer(t, store, "Ana Flores", "11111111", model.ProfileNone)
	seedCustomer(t, store, "Beto Ramos", "22222222", model.ProfileNone)

	found, err := svc.ListCustomers(ctx, "flores")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = svc.ListCustomers(ctx, "2222")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, svc.DeleteCustomer(ctx, a.ID))
	_, err = svc.GetCustomer(ctx, a.ID)
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestDeletedCustomerDNICanBeRegisteredAgain(t *testing.T) {
	ctx := context.Background()
	_, svc := newCustomers(t)

	first, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Ana Flores", DNI: "44445555"}, "Ana")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCustomer(ctx, first.ID))

	again, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Ana Flores Ruiz", DNI: "44445555"}, "Ana")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)

	found, err := svc.ListCustomers(ctx, "44445555")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, again.ID, found[0].ID)

	assert.ErrorIs(t, svc.DeleteCustomer(ctx, first.ID), apperr.NotFound)
}

func TestImportCustomersReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	_, svc := newCustomers(t)

	res, err := svc.ImportCustomers(ctx, []map[string]string{
		{"nombre": "Juan Pérez", "telefono": "987654321", "dni": "12345678"},
		{"nombre": "Repetido", "dni": "12345678"},
		{"nombre": "Mal DNI", "dni": "12"},
		{"nombre": "María González", "telefono": "876543210", "dni": "87654321"},
	}, "Ana")
	assert.ErrorIs(t, err, apperr.PartialFailure)
	require.NotNil(t, res)
	assert.Len(t, res.Created, 2)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 3, res.Failed[0].Row)
	assert.Equal(t, 4, res.Failed[1].Row)

	res, err = svc.ImportCustomers(ctx, []map[string]string{{"nombre": "Nuevo", "dni": "55555555"}}, "Ana")
	require.NoError(t, err)
	assert.Len(t, res.Created, 1)
}

func TestSeedStaff(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomers(t)
	seedCustomer(t, store, "Luis", "44444444", model.ProfileNone)

	c, err := svc.SeedStaff(ctx, CustomerInput{Name: "Luis", DNI: "44444444", Profile: model.ProfileSeller}, "cli")
	require.NoError(t, err)
	assert.True(t, c.IsStaff())

	c, err = svc.SeedStaff(ctx, CustomerInput{Name: "Admin", DNI: "99999999", Profile: model.ProfileAdministrator}, "cli")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileAdministrator, c.Profile)

	_, err = svc.SeedStaff(ctx, CustomerInput{Name: "X", DNI: "88888888"}, "cli")
	assert.ErrorIs(t, err, apperr.ErrProfileNotAllowed)
}
