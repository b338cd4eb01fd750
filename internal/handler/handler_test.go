package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hilanderia-pos/internal/export"
	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository/memory"
	"hilanderia-pos/internal/service"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	services := service.NewServices(store, jwt.NewManager("test-secret", time.Hour), nil,
		export.Company{Name: "HILOSdeCALIDAD.SAC", RUC: "10897612560", Address: "Lurigancho"}, zap.NewNop())

	app := fiber.New()
	RegisterRoutes(app, NewHandlers(services), services.Auth)

	ctx := context.Background()
	require.NoError(t, store.Customers().Create(ctx, &model.Customer{Name: "Ana Torres", DNI: "11112222", Profile: model.ProfileSeller}))

	srv := &testServer{app: app, store: store}
	resp, body := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"name": "Ana Torres", "dni": "11112222"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var login service.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	srv.token = login.Token
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, payload interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (s *testServer) seedCone(t *testing.T, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:      "Cono Rojo",
		Color:     "Rojo",
		State:     model.StateWoundCones,
		BasePrice: decimal.RequireFromString(price),
		UnitPrice: decimal.RequireFromString(price),
		Stock:     stock,
	}
	require.NoError(t, s.store.Products().Create(context.Background(), p))
	return p
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Code
}

func TestLoginRejectsUnknownStaff(t *testing.T) {
	srv := newTestServer(t)
	srv.token = ""

	resp, body := srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"name": "Nadie", "dni": "99998888"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "InvalidCredentials", errorCode(t, body))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv := newTestServer(t)
	srv.token = ""

	resp, _ := srv.do(t, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	srv.token = "garbage"
	resp, _ = srv.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMeReturnsSession(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Staff service.Session `json:"staff"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Ana Torres", out.Staff.Name)
	assert.Equal(t, model.ProfileSeller, out.Staff.Profile)
}

func TestCheckoutFlow(t *testing.T) {
	srv := newTestServer(t)
	cone := srv.seedCone(t, "4.50", 10)
	buyer := &model.Customer{Name: "Luis Rojas", DNI: "33334444"}
	require.NoError(t, srv.store.Customers().Create(context.Background(), buyer))

	resp, body := srv.do(t, http.MethodPost, "/api/v1/sales/quote", map[string]interface{}{
		"items": []service.CartLine{{ProductID: cone.ID, Quantity: 3}},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	var quote service.Quote
	require.NoError(t, json.Unmarshal(body, &quote))
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("13.50")))
	assert.Equal(t, "TRECE SOLES CON 50/100", quote.TotalInWords)

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sales", service.CheckoutInput{
		CustomerID: buyer.ID,
		Lines:      []service.CartLine{{ProductID: cone.ID, Quantity: 3}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		Data model.Sale `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Ana Torres", created.Data.Seller)

	got, err := srv.store.Products().FindByID(context.Background(), cone.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	resp, body = srv.do(t, http.MethodGet, "/api/v1/sales/"+created.Data.ID.String()+"/receipt", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "boleta-")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestCheckoutValidation(t *testing.T) {
	srv := newTestServer(t)
	cone := srv.seedCone(t, "4.50", 2)
	buyer := &model.Customer{Name: "Luis Rojas", DNI: "33334444"}
	require.NoError(t, srv.store.Customers().Create(context.Background(), buyer))

	resp, body := srv.do(t, http.MethodPost, "/api/v1/sales", service.CheckoutInput{CustomerID: buyer.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EmptyCart", errorCode(t, body))

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sales", service.CheckoutInput{
		Lines: []service.CartLine{{ProductID: cone.ID, Quantity: 1}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NoCustomerSelected", errorCode(t, body))

	resp, body = srv.do(t, http.MethodPost, "/api/v1/sales", service.CheckoutInput{
		CustomerID: buyer.ID,
		Lines:      []service.CartLine{{ProductID: cone.ID, Quantity: 5}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "InsufficientStock", errorCode(t, body))
}

func TestProductErrorsMapToStatus(t *testing.T) {
	srv := newTestServer(t)
	cone := srv.seedCone(t, "5.00", 4)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/products/"+cone.ID.String()+"/process", map[string]interface{}{
		"quantity":     2,
		"target_state": model.StateVariegatedCones,
		"base_price":   "5.00",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WrongState", errorCode(t, body))

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestIntakeAndProcess(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/products/intake", map[string]interface{}{
		"name":     "Hilo Azul",
		"color":    "Azul",
		"quantity": 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		Data model.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, model.StateRawMaterial, created.Data.State)

	resp, body = srv.do(t, http.MethodPost, "/api/v1/products/"+created.Data.ID.String()+"/process", map[string]interface{}{
		"quantity":     4,
		"target_state": model.StateWoundCones,
		"base_price":   "20.00",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))

	var outcome service.ProcessingOutcome
	require.NoError(t, json.Unmarshal(body, &outcome))
	assert.Equal(t, service.PartiallyConverted, outcome.Kind)
	assert.Equal(t, 6, outcome.Remaining)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := srv.do(t, http.MethodGet, "/api/v1/products/export?format=csv", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/customers/export?format=xlsx", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{apperr.ErrProfileNotAllowed.With("Cliente"), fiber.StatusForbidden},
		{apperr.ErrEmptyCart, fiber.StatusBadRequest},
		{apperr.ErrWrongState, fiber.StatusConflict},
		{apperr.ErrNotFound.With("x"), fiber.StatusNotFound},
		{apperr.Partial(1, 3), fiber.StatusMultiStatus},
		{apperr.Store(errors.New("connection reset")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}
