package product

import (
	"errors"
	"time"
)

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

var ErrInvalidProduct = errors.New("product needs a name, a non-negative price and non-negative stock")

// ServiceInterface lets other packages depend on the catalog without binding
// to the concrete service.
type ServiceInterface interface {
	List() ([]Product, error)
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	DecrementStock(id int, qty int) (bool, error)
	IncrementStock(id int, qty int) error
}

type Service struct {
	repo Repository
	now  func() string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: nowRFC3339}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) List() ([]Product, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return Product{}, ErrInvalidProduct
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return Product{}, ErrInvalidProduct
	}
	p.UpdatedAt = s.now()
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// DecrementStock reserves qty units of a product. It reports false when the
// product is missing or fewer than qty units remain; the check and the
// decrement happen as one atomic step in the repository.
func (s *Service) DecrementStock(id int, qty int) (bool, error) {
	if qty <= 0 {
		return false, nil
	}
	return s.repo.DecrementStock(id, qty, s.now())
}

// IncrementStock returns previously reserved units, used to undo a partial
// reservation when a later step of an order fails.
func (s *Service) IncrementStock(id int, qty int) error {
	if qty <= 0 {
		return nil
	}
	return s.repo.IncrementStock(id, qty, s.now())
}
