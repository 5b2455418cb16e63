package handlers_test_suite

import (
	"context"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/order-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func TestGetProducts(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/products")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	env := decode[[]models.Product](t, w)
	if !env.Success {
		t.Errorf("expected success=true")
	}
	if env.Count == nil || *env.Count != len(env.Data) {
		t.Fatalf("expected count to equal data length %d, got %v", len(env.Data), env.Count)
	}
	if len(env.Data) != 3 {
		t.Fatalf("expected 3 seeded products, got %d", len(env.Data))
	}
	for i, p := range env.Data {
		if p.ID != i+1 {
			t.Errorf("expected products in id order, got id %d at position %d", p.ID, i)
		}
	}
}

func TestGetProductByID(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/products/1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	env := decode[models.Product](t, w)
	if env.Data.Name != "Laptop" {
		t.Errorf("expected Laptop, got %q", env.Data.Name)
	}
	if !env.Data.Price.Equal(decimal.RequireFromString("99.99")) {
		t.Errorf("expected price 99.99, got %s", env.Data.Price)
	}
	if env.Data.Stock != 10 || env.Data.MinStock != 5 {
		t.Errorf("unexpected stock %d / minStock %d", env.Data.Stock, env.Data.MinStock)
	}
}

func TestGetProductByID_Errors(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/api/products/invalid", http.StatusBadRequest, "Invalid product ID"},
		{"/api/products/-1", http.StatusBadRequest, "Invalid product ID"},
		{"/api/products/+1", http.StatusBadRequest, "Invalid product ID"},
		{"/api/products/999", http.StatusNotFound, "Product not found"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			expectError(t, get(r, tt.path), tt.status, tt.msg)
		})
	}
}

func TestCreateProduct(t *testing.T) {
	r, store := newRouter(t)

	w := postJSON(r, "/api/products", map[string]any{
		"name":     "Monitor",
		"price":    199.9,
		"stock":    7,
		"minStock": 2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", w.Code, w.Body.String())
	}

	env := decode[models.Product](t, w)
	if env.Data.ID != 4 {
		t.Errorf("expected id 4, got %d", env.Data.ID)
	}
	if env.Data.Name != "Monitor" || env.Data.Stock != 7 || env.Data.MinStock != 2 {
		t.Errorf("unexpected product %+v", env.Data)
	}

	stored, err := store.Products().GetByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("expected stored product: %v", err)
	}
	if !stored.Price.Equal(decimal.RequireFromString("199.9")) {
		t.Errorf("expected stored price 199.9, got %s", stored.Price)
	}
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name    string
		payload map[string]any
		msg     string
	}{
		{"missing name", map[string]any{"price": 10, "stock": 1}, "Name, price, and stock are required"},
		{"missing price", map[string]any{"name": "X", "stock": 1}, "Name, price, and stock are required"},
		{"missing stock", map[string]any{"name": "X", "price": 10}, "Name, price, and stock are required"},
		{"negative price", map[string]any{"name": "X", "price": -1, "stock": 1}, "Price and stock cannot be negative"},
		{"negative stock", map[string]any{"name": "X", "price": 1, "stock": -1}, "Price and stock cannot be negative"},
		{"negative min stock", map[string]any{"name": "X", "price": 1, "stock": 1, "minStock": -3}, "Minimum stock cannot be negative"},
		{"sub-cent price", map[string]any{"name": "X", "price": 0.005, "stock": 1}, "Price must be a valid amount with at most 2 decimal places"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, postJSON(r, "/api/products", tt.payload), http.StatusBadRequest, tt.msg)
		})
	}
}

func TestCreateProduct_InvalidBody(t *testing.T) {
	r, _ := newRouter(t)

	for _, raw := range []string{`{"name":`, `[1,2]`, `{"name":"a"}{"name":"b"}`} {
		expectError(t, postRaw(r, "/api/products", raw), http.StatusBadRequest, "Invalid request body")
	}
}

func TestGetLowStockProducts(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/api/products/low-stock")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	env := decode[[]models.Product](t, w)
	if env.Count == nil || *env.Count != len(env.Data) {
		t.Fatalf("expected count to equal data length")
	}
	if len(env.Data) != 1 || env.Data[0].Name != "Mouse" {
		t.Fatalf("expected only Mouse to be low on stock, got %+v", env.Data)
	}
	for _, p := range env.Data {
		if p.Stock >= p.MinStock {
			t.Errorf("product %d is not below its minimum", p.ID)
		}
	}
}

func TestGetLowStockProducts_ReflectsOrders(t *testing.T) {
	r, _ := newRouter(t)

	// Laptop: stock 10, minStock 5. Buying 6 leaves 4.
	w := postJSON(r, "/api/orders", map[string]any{"userId": 1, "productId": 1, "quantity": 6})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	env := decode[[]models.Product](t, get(r, "/api/products/low-stock"))
	if len(env.Data) != 2 {
		t.Fatalf("expected 2 low stock products, got %d", len(env.Data))
	}
	if env.Data[0].ID != 1 || env.Data[0].Stock != 4 {
		t.Errorf("expected Laptop with stock 4 first, got %+v", env.Data[0])
	}
}

func TestUpdateProduct(t *testing.T) {
	r, store := newRouter(t)

	w := do(r, http.MethodPut, "/api/products/1", jsonBody(map[string]any{
		"name":     "Laptop Pro",
		"price":    149.5,
		"stock":    12,
		"minStock": 4,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	p, _ := store.Products().GetByID(context.Background(), 1)
	if p.Name != "Laptop Pro" || p.Stock != 12 || p.MinStock != 4 {
		t.Errorf("unexpected stored product %+v", p)
	}

	// The stock change is recorded as an adjustment of +2.
	env := decode[[]models.Movement](t, get(r, "/api/products/1/movements"))
	last := env.Data[len(env.Data)-1]
	if last.Reason != models.MovementAdjustment || last.Delta != 2 {
		t.Errorf("expected adjustment of 2, got %+v", last)
	}
}

func TestUpdateProduct_Errors(t *testing.T) {
	r, _ := newRouter(t)

	valid := map[string]any{"name": "X", "price": 1, "stock": 1}

	expectError(t, do(r, http.MethodPut, "/api/products/abc", jsonBody(valid)), http.StatusBadRequest, "Invalid product ID")
	expectError(t, do(r, http.MethodPut, "/api/products/999", jsonBody(valid)), http.StatusNotFound, "Product not found")
	expectError(t, do(r, http.MethodPut, "/api/products/1", jsonBody(map[string]any{"name": "X"})), http.StatusBadRequest, "Name, price, and stock are required")
}

func TestAdjustQuantity(t *testing.T) {
	r, _ := newRouter(t)

	w := postJSON(r, "/api/products/2/adjust", map[string]any{"delta": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}
	if env := decode[models.Product](t, w); env.Data.Stock != 8 {
		t.Errorf("expected stock 8, got %d", env.Data.Stock)
	}

	w = postJSON(r, "/api/products/2/adjust", map[string]any{"delta": -8})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if env := decode[models.Product](t, w); env.Data.Stock != 0 {
		t.Errorf("expected stock 0, got %d", env.Data.Stock)
	}
}

func TestAdjustQuantity_Errors(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name    string
		path    string
		payload map[string]any
		status  int
		msg     string
	}{
		{"invalid id", "/api/products/x/adjust", map[string]any{"delta": 1}, http.StatusBadRequest, "Invalid product ID"},
		{"missing delta", "/api/products/1/adjust", map[string]any{}, http.StatusBadRequest, "Delta is required"},
		{"zero delta", "/api/products/1/adjust", map[string]any{"delta": 0}, http.StatusBadRequest, "Delta must not be zero"},
		{"unknown product", "/api/products/999/adjust", map[string]any{"delta": 1}, http.StatusNotFound, "Product not found"},
		{"below zero", "/api/products/1/adjust", map[string]any{"delta": -11}, http.StatusConflict, "Stock cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, postJSON(r, tt.path, tt.payload), tt.status, tt.msg)
		})
	}

	env := decode[models.Product](t, get(r, "/api/products/1"))
	if env.Data.Stock != 10 {
		t.Errorf("rejected adjustments must not change stock, got %d", env.Data.Stock)
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newRouter(t)

	if w := get(r, "/api/nope"); w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if w := get(r, "/healthz"); w.Code != http.StatusOK {
		t.Errorf("expected healthz 200, got %d", w.Code)
	}
}
