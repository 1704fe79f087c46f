package product

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("product not found")

// Repository provides access to the catalog. DecrementStock is the atomic
// "decrement by qty only if stock >= qty" primitive; concurrent callers for
// the same product cannot both succeed past the available stock.
type Repository interface {
	List() ([]Product, error)
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	DecrementStock(id int, qty int, updatedAt string) (bool, error)
	IncrementStock(id int, qty int, updatedAt string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products []Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{products: make([]Product, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, p := range seed {
		r.products = append(r.products, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List() ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.products {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.products = append(r.products, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, update Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			p.Name = update.Name
			p.Description = update.Description
			p.Price = update.Price
			p.Stock = update.Stock
			p.Image = update.Image
			if update.UpdatedAt != "" {
				p.UpdatedAt = update.UpdatedAt
			}
			r.products[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// DecrementStock checks and applies the decrement under one lock so two
// concurrent orders cannot both take the last unit.
func (r *InMemoryRepository) DecrementStock(id int, qty int, updatedAt string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			if p.Stock < qty {
				return false, nil
			}
			p.Stock -= qty
			if updatedAt != "" {
				p.UpdatedAt = updatedAt
			}
			r.products[i] = p
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) IncrementStock(id int, qty int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			p.Stock += qty
			if updatedAt != "" {
				p.UpdatedAt = updatedAt
			}
			r.products[i] = p
			return nil
		}
	}
	return ErrNotFound
}
