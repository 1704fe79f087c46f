package cart

import (
	"testing"

	"storefront-backend/internal/product"
)

func newTestCart(t *testing.T, products []product.Product, userIDs ...int) *Service {
	t.Helper()
	catalog := product.NewService(product.NewInMemoryRepository(products))
	return NewService(NewInMemoryRepository(userIDs), catalog)
}

func TestAdd_MergesDuplicates(t *testing.T) {
	svc := newTestCart(t, []product.Product{{ID: 1, Name: "Mouse", Price: 10, Stock: 5}}, 1)

	if _, err := svc.Add(1, 1, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	items, err := svc.Add(1, 1, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected one line of quantity 5, got %+v", items)
	}
}

func TestAdd_DefaultsQuantityToOne(t *testing.T) {
	svc := newTestCart(t, []product.Product{{ID: 1, Name: "Mouse", Price: 10, Stock: 5}}, 1)

	items, err := svc.Add(1, 1, 0)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v", items)
	}
}

func TestAdd_UnknownProduct(t *testing.T) {
	svc := newTestCart(t, nil, 1)

	if _, err := svc.Add(1, 99, 1); err != product.ErrNotFound {
		t.Fatalf("expected product.ErrNotFound, got %v", err)
	}
}

func TestUpdateItem_Actions(t *testing.T) {
	svc := newTestCart(t, []product.Product{{ID: 1, Name: "Mouse", Price: 10, Stock: 5}}, 1)

	if _, err := svc.Add(1, 1, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := svc.UpdateItem(1, 1, "increase")
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if items[0].Quantity != 3 {
		t.Errorf("after increase quantity = %d, want 3", items[0].Quantity)
	}

	for i := 0; i < 2; i++ {
		if items, err = svc.UpdateItem(1, 1, "decrease"); err != nil {
			t.Fatalf("decrease %d: %v", i, err)
		}
	}
	if items[0].Quantity != 1 {
		t.Errorf("after decreases quantity = %d, want 1", items[0].Quantity)
	}

	// decreasing a quantity-1 line removes it
	items, err = svc.UpdateItem(1, 1, "decrease")
	if err != nil {
		t.Fatalf("final decrease: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty cart, got %+v", items)
	}

	if _, err := svc.UpdateItem(1, 1, "increase"); err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound for removed line, got %v", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	svc := newTestCart(t, []product.Product{
		{ID: 1, Name: "Mouse", Price: 10, Stock: 5},
		{ID: 2, Name: "Hub", Price: 20, Stock: 5},
	}, 1)

	if _, err := svc.Add(1, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(1, 2, 1); err != nil {
		t.Fatal(err)
	}

	items, err := svc.Remove(1, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != 2 {
		t.Fatalf("expected only product 2 left, got %+v", items)
	}

	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, err = svc.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty cart after clear, got %+v", items)
	}
}

func TestUnknownUser(t *testing.T) {
	svc := newTestCart(t, []product.Product{{ID: 1, Name: "Mouse", Price: 10, Stock: 5}}, 1)

	if _, err := svc.Get(9); err != ErrUserNotFound {
		t.Errorf("Get: expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Add(9, 1, 1); err != ErrUserNotFound {
		t.Errorf("Add: expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Clear(9); err != ErrUserNotFound {
		t.Errorf("Clear: expected ErrUserNotFound, got %v", err)
	}
}
