package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
	"github.com/bitfantasy/scm/internal/scm/service"
	"github.com/bitfantasy/scm/internal/scm/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func setupOrderTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	audit := service.NewAuditService(repos.Audit, zap.NewNop())
	svc := service.NewOrderService(repos.Order, repos.Product, repos.Supplier, audit)
	handler := NewOrderHandler(svc)

	api := testutil.AuthGroup(router, "/api")
	api.GET("/orders", handler.List)
	api.GET("/orders/:id", handler.Get)
	api.POST("/orders", handler.Create)
	api.PUT("/orders/:id", handler.Update)
	api.PUT("/orders/:id/status", handler.UpdateStatus)
	api.DELETE("/orders/:id", handler.Delete)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

// decEqual compares a JSON-decoded decimal field numerically, so formatting
// differences like 125 vs 125.00 do not fail the test.
func decEqual(t *testing.T, got interface{}, want string) bool {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Errorf("Expected decimal string, got %T (%v)", got, got)
		return false
	}
	gotDec, err := decimal.NewFromString(s)
	if err != nil {
		t.Errorf("Invalid decimal %q: %v", s, err)
		return false
	}
	wantDec, _ := decimal.NewFromString(want)
	return gotDec.Equal(wantDec)
}

func productQuantity(t *testing.T, env *testutil.TestEnv, id string) int {
	t.Helper()
	var product entity.Product
	if err := env.DB.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("Failed to load product %s: %v", id, err)
	}
	return product.Quantity
}

func TestOrderCreateDoesNotTouchStock(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	supplier := testutil.SeedSupplier(t, env.DB, "Acme Parts")
	product := testutil.SeedProduct(t, env.DB, "Widget", "WID-1", 10, 2, "25.00", "15.00")

	w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 5},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["status"] != "PENDING" {
		t.Errorf("New order status = %v, want PENDING", data["status"])
	}
	if !decEqual(t, data["total_amount"], "125") {
		t.Errorf("total_amount = %v, want 125", data["total_amount"])
	}

	if qty := productQuantity(t, env, product.ID); qty != 10 {
		t.Errorf("Stock after creation = %d, want 10 (unchanged)", qty)
	}
}

func TestOrderCompletionStockRoundTrip(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	supplier := testutil.SeedSupplier(t, env.DB, "Acme Parts")
	product := testutil.SeedProduct(t, env.DB, "Widget", "WID-1", 10, 2, "25.00", "15.00")

	w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 5},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// PENDING -> COMPLETED receives the goods
	w2 := testutil.DoRequest(env.Router, "PUT", "/api/orders/"+orderID+"/status?status=COMPLETED", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	if qty := productQuantity(t, env, product.ID); qty != 15 {
		t.Errorf("Stock after completion = %d, want 15", qty)
	}

	// COMPLETED -> PENDING reverses the exact receipt
	w3 := testutil.DoRequest(env.Router, "PUT", "/api/orders/"+orderID+"/status?status=PENDING", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	if qty := productQuantity(t, env, product.ID); qty != 10 {
		t.Errorf("Stock after reversal = %d, want 10", qty)
	}

	// PENDING -> CANCELLED does not move stock
	w4 := testutil.DoRequest(env.Router, "PUT", "/api/orders/"+orderID+"/status?status=CANCELLED", nil, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
	if qty := productQuantity(t, env, product.ID); qty != 10 {
		t.Errorf("Stock after cancellation = %d, want 10", qty)
	}
}

func TestOrderRejectsUnknownStatus(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	supplier := testutil.SeedSupplier(t, env.DB, "Acme Parts")
	product := testutil.SeedProduct(t, env.DB, "Widget", "WID-1", 10, 2, "25.00", "15.00")

	w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 1},
		},
	}, token)
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(env.Router, "PUT", "/api/orders/"+orderID+"/status?status=SHIPPED", nil, token)
	if w2.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", w2.Code)
	}
	if qty := productQuantity(t, env, product.ID); qty != 10 {
		t.Errorf("Stock after rejected status = %d, want 10", qty)
	}
}

func TestOrderPriceSnapshotFrozen(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	supplier := testutil.SeedSupplier(t, env.DB, "Acme Parts")
	product := testutil.SeedProduct(t, env.DB, "Widget", "WID-1", 10, 2, "25.00", "15.00")

	w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 2},
		},
	}, token)
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Catalog price change after the fact must not reach the order
	env.DB.Model(&entity.Product{}).Where("id = ?", product.ID).Update("price", "99.00")

	w2 := testutil.DoRequest(env.Router, "GET", "/api/orders/"+orderID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if !decEqual(t, data["total_amount"], "50") {
		t.Errorf("total_amount = %v, want 50 (frozen at order time)", data["total_amount"])
	}
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if unit := items[0].(map[string]interface{})["unit_price"]; !decEqual(t, unit, "25") {
		t.Errorf("unit_price = %v, want 25 (frozen at order time)", unit)
	}
}

func TestOrderDeleteKeepsStockEffect(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	supplier := testutil.SeedSupplier(t, env.DB, "Acme Parts")
	product := testutil.SeedProduct(t, env.DB, "Widget", "WID-1", 10, 2, "25.00", "15.00")

	w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 4},
		},
	}, token)
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	testutil.DoRequest(env.Router, "PUT", "/api/orders/"+orderID+"/status?status=COMPLETED", nil, token)
	if qty := productQuantity(t, env, product.ID); qty != 14 {
		t.Fatalf("Stock after completion = %d, want 14", qty)
	}

	w2 := testutil.DoRequest(env.Router, "DELETE", "/api/orders/"+orderID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	// Deleting a COMPLETED order never reverses its receipt
	if qty := productQuantity(t, env, product.ID); qty != 14 {
		t.Errorf("Stock after delete = %d, want 14", qty)
	}

	w3 := testutil.DoRequest(env.Router, "GET", "/api/orders/"+orderID, nil, token)
	if w3.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for deleted order, got %d", w3.Code)
	}
}

func TestOrderCreateUnknownSupplier(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	product := testutil.SeedProduct(t, env.DB, "Widget", "WID-1", 10, 2, "25.00", "15.00")

	// A well-formed but absent uuid and a malformed ID both read as not found
	for _, supplierID := range []string{uuid.New().String(), "no-such-supplier"} {
		w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
			"supplier_id": supplierID,
			"items": []map[string]interface{}{
				{"product_id": product.ID, "quantity": 1},
			},
		}, token)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for supplier %q, got %d: %s", supplierID, w.Code, w.Body.String())
		}
	}
}

func TestOrderGetMalformedID(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()

	w := testutil.DoRequest(env.Router, "GET", "/api/orders/no-such-order", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for malformed order id, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderCreateRequiresItems(t *testing.T) {
	env := setupOrderTest(t)
	token := testutil.AdminToken()
	supplier := testutil.SeedSupplier(t, env.DB, "Acme Parts")

	w := testutil.DoRequest(env.Router, "POST", "/api/orders", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items":       []map[string]interface{}{},
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty items, got %d: %s", w.Code, w.Body.String())
	}
}

func TestOrderRequiresAuth(t *testing.T) {
	env := setupOrderTest(t)

	w := testutil.DoRequest(env.Router, "GET", "/api/orders", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}
