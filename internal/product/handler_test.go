package product

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func setupApp(isAdmin bool, seed []Product) *fiber.App {
	h := NewHandler(NewService(NewInMemoryRepository(seed)))

	a := fiber.New()
	h.RegisterPublicRoutes(a)
	a.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id":  float64(1),
			"is_admin": isAdmin,
		}})
		return c.Next()
	})
	h.RegisterProtectedRoutes(a)
	return a
}

func TestListProducts_Public(t *testing.T) {
	a := setupApp(false, []Product{
		{ID: 1, Name: "Mouse", Price: 24.99, Stock: 10},
		{ID: 2, Name: "Hub", Price: 39.50, Stock: 5},
	})

	res, err := a.Test(httptest.NewRequest("GET", "/api/v1/products", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(res.Body).Decode(&products); err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Errorf("expected 2 products, got %d", len(products))
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	a := setupApp(false, nil)

	res, err := a.Test(httptest.NewRequest("GET", "/api/v1/products/42", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	body, _ := json.Marshal(map[string]any{"name": "Stand", "price": 31.00, "stock": 35})

	a := setupApp(false, nil)
	req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", res.StatusCode)
	}

	admin := setupApp(true, nil)
	req = httptest.NewRequest("POST", "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err = admin.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", res.StatusCode)
	}

	var created Product
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.Name != "Stand" {
		t.Errorf("unexpected created product: %+v", created)
	}
}

func TestCreateProduct_RejectsInvalid(t *testing.T) {
	a := setupApp(true, nil)

	body, _ := json.Marshal(map[string]any{"name": "", "price": -1.0})
	req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}
