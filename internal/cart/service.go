package cart

import (
	"time"

	"storefront-backend/internal/product"
)

// ServiceInterface lets other packages (the order workflow clears carts)
// depend on cart operations without binding to the concrete service.
type ServiceInterface interface {
	Get(userID int) ([]Item, error)
	Lines(userID int) ([]Line, error)
	Add(userID int, productID int, qty int) ([]Item, error)
	UpdateItem(userID int, productID int, action string) ([]Item, error)
	Remove(userID int, productID int) ([]Item, error)
	Clear(userID int) error
}

// Service orchestrates cart operations.
type Service struct {
	repo     Repository
	products product.ServiceInterface
	now      func() string
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{
		repo:     repo,
		products: products,
		now:      func() string { return time.Now().UTC().Format(time.RFC3339) },
	}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) Get(userID int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrUserNotFound
	}
	return s.repo.GetCart(userID)
}

func (s *Service) Lines(userID int) ([]Line, error) {
	if userID <= 0 {
		return nil, ErrUserNotFound
	}
	return s.repo.GetLines(userID)
}

// Add puts qty units of a product into the cart, merging with an existing
// line for the same product. The product must exist in the catalog.
func (s *Service) Add(userID int, productID int, qty int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrUserNotFound
	}
	if qty <= 0 {
		qty = 1
	}
	if _, err := s.products.GetByID(productID); err != nil {
		return nil, err
	}
	return s.repo.AddToCart(userID, productID, qty, s.now())
}

// UpdateItem applies an "increase" or "decrease" action to an existing line.
// Decreasing a quantity-1 line removes it.
func (s *Service) UpdateItem(userID int, productID int, action string) ([]Item, error) {
	lines, err := s.Lines(userID)
	if err != nil {
		return nil, err
	}

	var current int
	found := false
	for _, l := range lines {
		if l.ProductID == productID {
			current = l.Quantity
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}

	switch action {
	case "increase":
		return s.repo.AddToCart(userID, productID, 1, s.now())
	case "decrease":
		if current > 1 {
			return s.repo.AddToCart(userID, productID, -1, s.now())
		}
		return s.repo.RemoveFromCart(userID, productID, s.now())
	default:
		return s.repo.GetCart(userID)
	}
}

func (s *Service) Remove(userID int, productID int) ([]Item, error) {
	if userID <= 0 {
		return nil, ErrUserNotFound
	}
	return s.repo.RemoveFromCart(userID, productID, s.now())
}

// Clear empties a user's cart.
func (s *Service) Clear(userID int) error {
	if userID <= 0 {
		return ErrUserNotFound
	}
	return s.repo.ClearCart(userID, s.now())
}
