package cart

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// Repository provides access to per-user carts. A cart holds one line per
// product; adding the same product again merges by increasing the quantity.
type Repository interface {
	GetLines(userID int) ([]Line, error)
	GetCart(userID int) ([]Item, error)
	AddToCart(userID int, productID int, qty int, updatedAt string) ([]Item, error)
	RemoveFromCart(userID int, productID int, updatedAt string) ([]Item, error)
	ClearCart(userID int, updatedAt string) error
}

// InMemoryRepository is used for tests and local scenarios. Items carry only
// product id and quantity since no catalog is attached.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]int
}

func NewInMemoryRepository(userIDs []int) *InMemoryRepository {
	carts := make(map[int]map[int]int, len(userIDs))
	for _, id := range userIDs {
		carts[id] = make(map[int]int)
	}
	return &InMemoryRepository{carts: carts}
}

func (r *InMemoryRepository) GetLines(userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	lines := make([]Line, 0, len(cart))
	for pid, qty := range cart {
		lines = append(lines, Line{ProductID: pid, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

func (r *InMemoryRepository) GetCart(userID int) ([]Item, error) {
	lines, err := r.GetLines(userID)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return items, nil
}

func (r *InMemoryRepository) AddToCart(userID int, productID int, qty int, updatedAt string) ([]Item, error) {
	r.mu.Lock()
	cart, ok := r.carts[userID]
	if !ok {
		r.mu.Unlock()
		return nil, ErrUserNotFound
	}
	cart[productID] += qty
	if cart[productID] <= 0 {
		delete(cart, productID)
	}
	r.mu.Unlock()

	return r.GetCart(userID)
}

func (r *InMemoryRepository) RemoveFromCart(userID int, productID int, updatedAt string) ([]Item, error) {
	r.mu.Lock()
	cart, ok := r.carts[userID]
	if !ok {
		r.mu.Unlock()
		return nil, ErrUserNotFound
	}
	delete(cart, productID)
	r.mu.Unlock()

	return r.GetCart(userID)
}

func (r *InMemoryRepository) ClearCart(userID int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; !ok {
		return ErrUserNotFound
	}
	r.carts[userID] = make(map[int]int)
	return nil
}
