package memory

import (
	"context"
	"errors"
	"testing"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCone(name string, stock int) *model.Product {
	return &model.Product{
		Name:      name,
		Color:     "Rojo",
		State:     model.StateWoundCones,
		BasePrice: decimal.NewFromInt(5),
		UnitPrice: decimal.NewFromInt(5),
		Stock:     stock,
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newCone("Cono", 10)
	require.NoError(t, s.Products().Create(ctx, p))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Products().DecrementStock(ctx, p.ID, 4, "tester"))
		require.NoError(t, tx.Events().Create(ctx, &model.Event{Type: model.EventSale, Description: "x"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)

	events, err := s.Events().FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDecrementStockIsConditional(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := newCone("Cono", 3)
	require.NoError(t, s.Products().Create(ctx, p))

	assert.ErrorIs(t, s.Products().DecrementStock(ctx, p.ID, 4, "x"), repository.ErrStockConflict)
	require.NoError(t, s.Products().DecrementStock(ctx, p.ID, 3, "x"))

	got, _ := s.Products().FindByID(ctx, p.ID)
	assert.Equal(t, 0, got.Stock)
}

func TestProductFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Products().Create(ctx, newCone("Zeta", 2)))
	require.NoError(t, s.Products().Create(ctx, newCone("Alfa", 0)))
	raw := &model.Product{Name: "Algodon", Color: "Azul", State: model.StateRawMaterial, RawQuantity: model.IntPtr(8)}
	require.NoError(t, s.Products().Create(ctx, raw))

	all, err := s.Products().FindAll(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Algodon", all[0].Name, "newest first")

	sellable, err := s.Products().FindAll(ctx, repository.ProductFilter{
		States:      []model.ProductState{model.StateWoundCones},
		InStockOnly: true,
		OrderByName: true,
	})
	require.NoError(t, err)
	require.Len(t, sellable, 1)
	assert.Equal(t, "Zeta", sellable[0].Name)

	byColor, err := s.Products().FindAll(ctx, repository.ProductFilter{Search: "azul"})
	require.NoError(t, err)
	require.Len(t, byColor, 1)
	assert.Equal(t, raw.ID, byColor[0].ID)
}

func TestCustomerDNIUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Customers().Create(ctx, &model.Customer{Name: "Ana", DNI: "12345678"}))
	err := s.Customers().Create(ctx, &model.Customer{Name: "Otra", DNI: "12345678"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestDeletedCustomerIsHiddenButStaysOnSales(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &model.Customer{Name: "Ana", DNI: "12345678"}
	require.NoError(t, s.Customers().Create(ctx, c))
	sale := &model.Sale{CustomerID: c.ID, Total: decimal.NewFromInt(5), TransactionCode: "tx-1"}
	require.NoError(t, s.Sales().Create(ctx, sale))

	require.NoError(t, s.Customers().Delete(ctx, c.ID))
	_, err := s.Customers().FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Customers().FindByDNI(ctx, "12345678")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.Customers().Delete(ctx, c.ID), repository.ErrNotFound)

	require.NoError(t, s.Customers().Create(ctx, &model.Customer{Name: "Ana Nueva", DNI: "12345678"}))

	got, err := s.Sales().FindByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Ana", got.Customer.Name)
}

func TestTransactionHonorsCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := s.Transaction(ctx, func(tx repository.Store) error {
		ran = true
		return tx.Products().Create(ctx, newCone("Cono", 1))
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)

	all, err := s.Products().FindAll(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTransactionDiscardsWritesWhenCancelledMidway(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Products().Create(ctx, newCone("Cono", 1)))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	all, err := s.Products().FindAll(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFailOnInjectsErrors(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("disk full")
	s.FailOn("products.Create", boom)
	assert.ErrorIs(t, s.Products().Create(ctx, newCone("Cono", 1)), boom)

	s.FailOn("products.Create", nil)
	assert.NoError(t, s.Products().Create(ctx, newCone("Cono", 1)))
}
