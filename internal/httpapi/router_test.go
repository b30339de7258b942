package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfinity/backoffice/internal/auth"
	catalogmemory "github.com/billfinity/backoffice/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/billfinity/backoffice/internal/domains/catalog/application"
	customermemory "github.com/billfinity/backoffice/internal/domains/customers/adapters/memory"
	customerapp "github.com/billfinity/backoffice/internal/domains/customers/application"
	ordermemory "github.com/billfinity/backoffice/internal/domains/orders/adapters/memory"
	orderapp "github.com/billfinity/backoffice/internal/domains/orders/application"
	settingsmemory "github.com/billfinity/backoffice/internal/domains/settings/adapters/memory"
	settingsapp "github.com/billfinity/backoffice/internal/domains/settings/application"
	usermemory "github.com/billfinity/backoffice/internal/domains/users/adapters/memory"
	userapp "github.com/billfinity/backoffice/internal/domains/users/application"
	userports "github.com/billfinity/backoffice/internal/domains/users/ports"
	"github.com/billfinity/backoffice/internal/realtime"
)

func newTestRouter(t *testing.T, authDisabled bool) (*gin.Engine, *auth.Issuer, userports.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogRepo := catalogmemory.NewRepository()
	customerRepo := customermemory.NewRepository()
	orderRepo := ordermemory.NewRepository(catalogRepo)
	userRepo := usermemory.NewRepository()

	hub := realtime.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	userService := userapp.NewService(userRepo)
	issuer := auth.NewIssuer("test-secret", time.Hour)

	router := NewRouter(Services{
		Customers: customerapp.NewService(customerRepo, orderRepo),
		Catalog:   catalogapp.NewService(catalogRepo, orderRepo, nil),
		Orders:    orderapp.NewService(orderRepo, customerRepo, nil),
		Users:     userService,
		Settings:  settingsapp.NewService(settingsmemory.NewRepository()),
	}, RouterConfig{
		ServiceName:  "billfinity-test",
		Issuer:       issuer,
		AuthDisabled: authDisabled,
		Hub:          hub,
	})
	return router, issuer, userService
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t, true)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginIssuesToken(t *testing.T) {
	router, _, users := newTestRouter(t, false)

	_, err := users.CreateUser(context.Background(), userports.CreateUserInput{
		Name:     "Priya",
		Email:    "priya@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/users/login", "", gin.H{
		"email":    "priya@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// The issued token grants access to protected routes.
	rec = doJSON(t, router, http.MethodGet, "/customers", resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _, users := newTestRouter(t, false)

	_, err := users.CreateUser(context.Background(), userports.CreateUserInput{
		Name:     "Priya",
		Email:    "priya@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/users/login", "", gin.H{
		"email":    "priya@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _, _ := newTestRouter(t, false)

	rec := doJSON(t, router, http.MethodGet, "/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/customers", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthDisabledBypassCreatesDevUser(t *testing.T) {
	router, _, users := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list, err := users.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dev@example.com", list[0].Email)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodPost, "/customers", "", gin.H{
		"name":  "Asha Traders",
		"email": "asha@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var customer customerPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))

	rec = doJSON(t, router, http.MethodPost, "/items", "", gin.H{
		"name":  "Masala Chai",
		"sku":   "CHAI-001",
		"price": "5.00",
		"stock": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item itemPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, 18, item.GSTRate)

	rec = doJSON(t, router, http.MethodPost, "/orders", "", gin.H{
		"customer_id": customer.ID,
		"items":       []gin.H{{"item_id": item.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var order orderPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "15.00", order.Total)
	assert.Equal(t, "pending", order.Status)

	// Stock was decremented by the order.
	rec = doJSON(t, router, http.MethodGet, "/items/"+itoa(item.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, 7, item.Stock)

	// While referenced, neither the customer nor the item can be deleted.
	rec = doJSON(t, router, http.MethodDelete, "/customers/"+itoa(customer.ID), "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/items/"+itoa(item.ID), "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders/"+itoa(order.ID)+"/complete", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "completed", order.Status)

	rec = doJSON(t, router, http.MethodPost, "/orders/"+itoa(order.ID)+"/complete", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrderInsufficientStockProblem(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodPost, "/customers", "", gin.H{"name": "Asha"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var customer customerPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customer))

	rec = doJSON(t, router, http.MethodPost, "/items", "", gin.H{
		"name":  "Filter Coffee",
		"sku":   "COF-001",
		"price": "8.50",
		"stock": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var item itemPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	rec = doJSON(t, router, http.MethodPost, "/orders", "", gin.H{
		"customer_id": customer.ID,
		"items":       []gin.H{{"item_id": item.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/problems/conflict", problem["type"])
	extensions, ok := problem["extensions"].(map[string]any)
	require.True(t, ok, "problem carries an extensions object")
	assert.Equal(t, "COF-001", extensions["sku"])
	assert.EqualValues(t, 2, extensions["available"])
	assert.EqualValues(t, 3, extensions["requested"])
}

func TestDuplicateIdentifiersAnswerBadRequest(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	payload := gin.H{
		"name":  "Masala Chai",
		"sku":   "CHAI-001",
		"price": "5.00",
		"stock": 10,
	}
	rec := doJSON(t, router, http.MethodPost, "/items", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/items", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/problems/conflict", problem["type"])

	user := gin.H{
		"name":     "Priya",
		"email":    "priya@example.com",
		"password": "s3cret",
	}
	rec = doJSON(t, router, http.MethodPost, "/users", "", user)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/users", "", user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsGetAndPut(t *testing.T) {
	router, _, _ := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodGet, "/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings settingsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "INR", settings.Currency)

	rec = doJSON(t, router, http.MethodPut, "/settings", "", gin.H{
		"company_name": "BillFinity Pvt Ltd",
		"sms_alerts":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "BillFinity Pvt Ltd", settings.CompanyName)
	assert.True(t, settings.SMSAlerts)
	assert.Equal(t, "INR", settings.Currency)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
