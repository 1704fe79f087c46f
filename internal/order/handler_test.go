package order

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/product"
)

// setupApp wires the handler over in-memory repositories and fakes the jwt
// middleware by planting claims for the given identity on every request.
func setupApp(userID int, isAdmin bool, products []product.Product, userIDs ...int) *fiber.App {
	productService := product.NewService(product.NewInMemoryRepository(products))
	cartService := cart.NewService(cart.NewInMemoryRepository(userIDs), productService)
	svc := NewService(NewInMemoryRepository(), productService, cartService)

	a := fiber.New()
	a.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id":  float64(userID),
			"is_admin": isAdmin,
		}})
		return c.Next()
	})
	NewHandler(svc).RegisterProtectedRoutes(a)
	return a
}

func postJSON(t *testing.T, a *fiber.App, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	rec.Code = res.StatusCode
	if _, err := rec.Body.ReadFrom(res.Body); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestPlaceOrderRoute_Created(t *testing.T) {
	a := setupApp(1, false, []product.Product{
		{ID: 1, Name: "Mouse", Price: 24.99, Stock: 10},
	}, 1)

	rec := postJSON(t, a, "/api/v1/orders", map[string]any{
		"items":         []map[string]int{{"productId": 1, "quantity": 2}},
		"paymentMethod": "card",
		"taxPrice":      1.00,
		"shippingPrice": 5.99,
	})
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var ord Order
	if err := json.Unmarshal(rec.Body.Bytes(), &ord); err != nil {
		t.Fatal(err)
	}
	if ord.UserID != 1 || len(ord.Items) != 1 || ord.Items[0].Quantity != 2 {
		t.Errorf("unexpected order payload: %+v", ord)
	}
	if ord.TotalPrice != ord.ItemsPrice+ord.TaxPrice+ord.ShippingPrice {
		t.Errorf("total %v != items %v + tax %v + shipping %v", ord.TotalPrice, ord.ItemsPrice, ord.TaxPrice, ord.ShippingPrice)
	}
}

func TestPlaceOrderRoute_InsufficientStock(t *testing.T) {
	a := setupApp(1, false, []product.Product{
		{ID: 1, Name: "Mouse", Price: 24.99, Stock: 1},
	}, 1)

	rec := postJSON(t, a, "/api/v1/orders", map[string]any{
		"items": []map[string]int{{"productId": 1, "quantity": 3}},
	})
	if rec.Code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrderRoute_ProductNotFound(t *testing.T) {
	a := setupApp(1, false, nil, 1)

	rec := postJSON(t, a, "/api/v1/orders", map[string]any{
		"items": []map[string]int{{"productId": 5, "quantity": 1}},
	})
	if rec.Code != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetOrdersRoute_AdminOnly(t *testing.T) {
	a := setupApp(1, false, nil, 1)

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}

	admin := setupApp(2, true, nil, 2)
	req = httptest.NewRequest("GET", "/api/v1/orders", nil)
	res, err = admin.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", res.StatusCode)
	}
}

func TestMarkPaidRoute_NotFound(t *testing.T) {
	a := setupApp(1, false, nil, 1)

	buf, _ := json.Marshal(map[string]string{"id": "tx-9", "status": "COMPLETED"})
	req := httptest.NewRequest("PUT", "/api/v1/orders/42/pay", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestMarkDeliveredRoute_AdminOnly(t *testing.T) {
	a := setupApp(1, false, nil, 1)

	req := httptest.NewRequest("PUT", "/api/v1/orders/1/deliver", nil)
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}
}

func TestGetOrderRoute_OwnershipCheck(t *testing.T) {
	products := []product.Product{{ID: 1, Name: "Mouse", Price: 24.99, Stock: 10}}

	owner := setupApp(1, false, products, 1, 2)
	rec := postJSON(t, owner, "/api/v1/orders", map[string]any{
		"items": []map[string]int{{"productId": 1, "quantity": 1}},
	})
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("placing order: got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/orders/1", nil)
	res, err := owner.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("owner read: expected 200, got %d", res.StatusCode)
	}
}

func TestMyOrdersRoute(t *testing.T) {
	a := setupApp(3, false, []product.Product{
		{ID: 1, Name: "Mouse", Price: 10, Stock: 10},
	}, 3)

	rec := postJSON(t, a, "/api/v1/orders", map[string]any{
		"items": []map[string]int{{"productId": 1, "quantity": 1}},
	})
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("placing order: got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/orders/myorders", nil)
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var orders []Order
	if err := json.NewDecoder(res.Body).Decode(&orders); err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 || orders[0].UserID != 3 {
		t.Errorf("unexpected orders: %+v", orders)
	}
}
