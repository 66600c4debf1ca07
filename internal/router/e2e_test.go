//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tillpos/internal/config"
	"tillpos/internal/infra"
	"tillpos/internal/model"
	"tillpos/internal/router"
	"tillpos/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func today() string { return time.Now().Format("2006-01-02") }

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("tillpos_test"),
		tcPostgres.WithUsername("tillpos"),
		tcPostgres.WithPassword("tillpos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		WorkerPoolSize:     1,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		ReceiptStoragePath: t.TempDir(),
		StoreName:          "TillPOS Test",
		// No ReportEmail: closures must succeed without a mail target.
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user with PIN 1234
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Username: "admin",
		Name:     "Admin E2E",
		PINHash:  string(hash),
		Role:     "admin",
		Active:   true,
	}).Error)

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg, smtpCB)
	dispatcher := worker.NewDispatcher(rdb)

	r := router.New(cfg, db, rdb, mailer, smtpCB, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "pin": "1234"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func createProduct(t *testing.T, env *testEnv, name, upc, price string, qty int) uint {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": name, "upc": upc, "price": price, "qty": qty}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	prodID := createProduct(t, env, "Soda 500ml", "7890001000001", "2.50", 20)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":   []map[string]any{{"product_id": prodID, "qty": 3}},
			"payment": map[string]any{"method": "cash", "cash_received": "10"},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            uint             `json:"id"`
		Total         decimal.Decimal  `json:"total"`
		PaymentMethod string           `json:"payment_method"`
		ChangeDue     *decimal.Decimal `json:"change_due"`
		Items         []struct {
			ProductID uint            `json:"product_id"`
			Qty       int             `json:"qty"`
			Price     decimal.Decimal `json:"price"`
			Subtotal  decimal.Decimal `json:"subtotal"`
		} `json:"items"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("7.5")), "total = %s", sale.Total)
	assert.Equal(t, "cash", sale.PaymentMethod)
	require.NotNil(t, sale.ChangeDue)
	assert.True(t, sale.ChangeDue.Equal(decimal.RequireFromString("2.5")), "change = %s", sale.ChangeDue)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].Subtotal.Equal(decimal.RequireFromString("7.5")))

	// Stock decremented
	prodResp := do(t, env.server, "GET", fmt.Sprintf("/v1/products/%d", prodID), nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Qty int `json:"qty"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 17, prod.Qty)

	// Fetch + list
	getResp := do(t, env.server, "GET", fmt.Sprintf("/v1/sales/%d", sale.ID), nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	getResp.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/sales?day="+today(), nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Data  []json.RawMessage `json:"data"`
		Total int64             `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)
}

func TestE2E_InsufficientStockRejectsSale(t *testing.T) {
	env := setupTestEnv(t)

	prodID := createProduct(t, env, "Juice 1L", "7890001000002", "1.50", 2)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":   []map[string]any{{"product_id": prodID, "qty": 5}},
			"payment": map[string]any{"method": "card"},
		}), env.token)
	require.Equal(t, http.StatusBadRequest, saleResp.StatusCode)
	var apiErr struct {
		Error string `json:"error"`
	}
	decodeJSON(t, saleResp, &apiErr)
	assert.Equal(t, "Insufficient stock for Juice 1L", apiErr.Error)

	// Stock untouched, nothing persisted
	prodResp := do(t, env.server, "GET", fmt.Sprintf("/v1/products/%d", prodID), nil, env.token)
	var prod struct {
		Qty int `json:"qty"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 2, prod.Qty)

	listResp := do(t, env.server, "GET", "/v1/sales?day="+today(), nil, env.token)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(0), list.Total)
}

func TestE2E_CloseDayFlow(t *testing.T) {
	env := setupTestEnv(t)

	prodID := createProduct(t, env, "Milk 1L", "7890001000003", "2.50", 50)

	// One cash sale (7.50) and one card sale (5.00)
	resp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":   []map[string]any{{"product_id": prodID, "qty": 3}},
			"payment": map[string]any{"method": "cash", "cash_received": "10"},
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":   []map[string]any{{"product_id": prodID, "qty": 2}},
			"payment": map[string]any{"method": "card"},
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Preview expected totals
	expResp := do(t, env.server, "GET", "/v1/report/close?day="+today(), nil, env.token)
	require.Equal(t, http.StatusOK, expResp.StatusCode)
	var expBody struct {
		OK   bool `json:"ok"`
		Data struct {
			Total    decimal.Decimal `json:"total"`
			ByMethod struct {
				Cash decimal.Decimal `json:"cash"`
				Card decimal.Decimal `json:"card"`
			} `json:"byMethod"`
			SalesCount int64 `json:"salesCount"`
		} `json:"data"`
	}
	decodeJSON(t, expResp, &expBody)
	assert.True(t, expBody.OK)
	assert.True(t, expBody.Data.Total.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, expBody.Data.ByMethod.Cash.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, expBody.Data.ByMethod.Card.Equal(decimal.RequireFromString("5")))
	assert.Equal(t, int64(2), expBody.Data.SalesCount)

	// Close with a card shortfall of 1.00
	closeResp := do(t, env.server, "POST", "/v1/report/close",
		jsonBody(t, map[string]any{
			"day":          today(),
			"counted_cash": "7.50",
			"counted_card": "4.00",
		}), env.token)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closeBody struct {
		OK   bool `json:"ok"`
		Data struct {
			Diff struct {
				Cash  decimal.Decimal `json:"cash"`
				Card  decimal.Decimal `json:"card"`
				Total decimal.Decimal `json:"total"`
			} `json:"diff"`
		} `json:"data"`
		Email struct {
			Sent bool `json:"sent"`
		} `json:"email"`
	}
	decodeJSON(t, closeResp, &closeBody)
	assert.True(t, closeBody.OK)
	assert.True(t, closeBody.Data.Diff.Cash.IsZero())
	assert.True(t, closeBody.Data.Diff.Card.Equal(decimal.RequireFromString("-1")))
	assert.True(t, closeBody.Data.Diff.Total.Equal(closeBody.Data.Diff.Cash.Add(closeBody.Data.Diff.Card)))
	assert.False(t, closeBody.Email.Sent)

	// Closure is recorded; a second close appends another row
	closeResp2 := do(t, env.server, "POST", "/v1/report/close",
		jsonBody(t, map[string]any{"day": today(), "counted_cash": "7.50", "counted_card": "5.00"}),
		env.token)
	require.Equal(t, http.StatusOK, closeResp2.StatusCode)
	closeResp2.Body.Close()

	listResp := do(t, env.server, "GET", "/v1/report/closures", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var closures struct {
		Data  []json.RawMessage `json:"data"`
		Total int64             `json:"total"`
	}
	decodeJSON(t, listResp, &closures)
	assert.Equal(t, int64(2), closures.Total)
}

func TestE2E_PublicPriceCheck(t *testing.T) {
	env := setupTestEnv(t)

	createProduct(t, env, "Bread", "7890001000004", "1.20", 5)

	// No token: price check is a public kiosk endpoint
	resp := do(t, env.server, "GET", "/v1/price/7890001000004", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Bread", body.Name)
	assert.True(t, body.Price.Equal(decimal.RequireFromString("1.20")))

	// Second hit is served from the Redis cache
	resp = do(t, env.server, "GET", "/v1/price/7890001000004", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/price/0000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// Create a cashier, log in as them
	resp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username": "cashier1", "name": "Cashier One", "pin": "5678", "role": "cashier",
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "cashier1", "pin": "5678"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)

	// Cashiers cannot create products
	resp = do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "Nope", "price": "1", "qty": 1}),
		loginBody.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// But they can sell
	prodID := createProduct(t, env, "Gum", "7890001000005", "0.50", 10)
	resp = do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":   []map[string]any{{"product_id": prodID, "qty": 1}},
			"payment": map[string]any{"method": "cash", "cash_received": "1"},
		}), loginBody.AccessToken)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}
