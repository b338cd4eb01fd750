package service

import (
	"context"
	"sync"
	"testing"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type published struct {
	Type   string
	Action string
	Data   interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []published
}

func (r *recordingNotifier) Publish(msgType, action string, data interface{}, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, published{Type: msgType, Action: action, Data: data})
}

func (r *recordingNotifier) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Action)
	}
	return out
}

func seedCone(t *testing.T, store *memory.Store, name, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:      name,
		Color:     "Rojo",
		State:     model.StateWoundCones,
		BasePrice: decimal.RequireFromString(price),
		UnitPrice: decimal.RequireFromString(price),
		Stock:     stock,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func seedRaw(t *testing.T, store *memory.Store, color string, qty int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:        "Hilo " + color,
		Color:       color,
		Description: "lote de tintoreria",
		State:       model.StateRawMaterial,
		RawQuantity: model.IntPtr(qty),
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func seedCustomer(t *testing.T, store *memory.Store, name, dni string, profile model.Profile) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: name, DNI: dni, Profile: profile}
	require.NoError(t, store.Customers().Create(context.Background(), c))
	return c
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
