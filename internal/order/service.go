package order

import (
	"log"
	"time"

	"github.com/google/uuid"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/product"
)

// RequestedItem is one (product, quantity) line of a placement request.
type RequestedItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// PlaceOrderInput carries everything PlaceOrder needs. Tax and shipping are
// supplied by the caller, not computed here; they only enter the total.
type PlaceOrderInput struct {
	UserID          int
	Items           []RequestedItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	TaxPrice        float64
	ShippingPrice   float64
}

// Service is the order workflow engine. It validates requested lines against
// the catalog, reserves stock, persists the order and clears the cart.
type Service struct {
	repo    Repository
	catalog product.ServiceInterface
	carts   cart.ServiceInterface
	now     func() string
}

func NewService(repo Repository, catalog product.ServiceInterface, carts cart.ServiceInterface) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		carts:   carts,
		now:     func() string { return time.Now().UTC().Format(time.RFC3339) },
	}
}

// PlaceOrder runs in two phases. Phase one validates every requested line
// read-only and snapshots prices, so a bad line aborts before any stock
// moves. Phase two commits the reservations through the catalog's atomic
// conditional decrement; if one of them loses a race the earlier decrements
// are returned and the whole call fails. Only after all stock is reserved is
// the order persisted and the cart cleared.
func (s *Service) PlaceOrder(in PlaceOrderInput) (Order, error) {
	if in.UserID <= 0 {
		return Order{}, &ValidationError{Reason: "invalid user"}
	}
	if len(in.Items) == 0 {
		return Order{}, &ValidationError{Reason: "order must contain at least one item"}
	}
	if in.TaxPrice < 0 || in.ShippingPrice < 0 {
		return Order{}, &ValidationError{Reason: "tax and shipping prices must be non-negative"}
	}

	// duplicate product lines merge by summing quantities, mirroring how
	// carts merge duplicate adds
	merged := make([]RequestedItem, 0, len(in.Items))
	index := make(map[int]int, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity < 1 {
			return Order{}, &ValidationError{Reason: "quantity must be at least 1"}
		}
		if at, ok := index[item.ProductID]; ok {
			merged[at].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	// phase one: validate and snapshot, no mutation
	lines := make([]Line, 0, len(merged))
	itemsPrice := 0.0
	for _, item := range merged {
		p, err := s.catalog.GetByID(item.ProductID)
		if err != nil {
			if err == product.ErrNotFound {
				return Order{}, &ProductNotFoundError{ProductID: item.ProductID}
			}
			return Order{}, err
		}
		if p.Stock < item.Quantity {
			return Order{}, &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: item.Quantity,
			}
		}
		lines = append(lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  item.Quantity,
		})
		itemsPrice += p.Price * float64(item.Quantity)
	}

	// phase two: reserve stock atomically per product
	for i, line := range lines {
		ok, err := s.catalog.DecrementStock(line.ProductID, line.Quantity)
		if err == nil && ok {
			continue
		}
		s.restock(lines[:i])
		if err != nil {
			return Order{}, err
		}
		return Order{}, ErrConcurrencyConflict
	}

	ord := Order{
		Ref:             uuid.NewString(),
		UserID:          in.UserID,
		Items:           lines,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        in.TaxPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      itemsPrice + in.TaxPrice + in.ShippingPrice,
		CreatedAt:       s.now(),
	}

	created, err := s.repo.Insert(ord)
	if err != nil {
		s.restock(lines)
		return Order{}, err
	}

	if err := s.carts.Clear(in.UserID); err != nil {
		// the order is already committed; an unclear cart is recoverable,
		// losing the order is not
		log.Printf("warning: could not clear cart for user %d: %v", in.UserID, err)
	}

	return created, nil
}

func (s *Service) restock(lines []Line) {
	for _, line := range lines {
		if err := s.catalog.IncrementStock(line.ProductID, line.Quantity); err != nil {
			log.Printf("warning: could not restock product %d by %d: %v", line.ProductID, line.Quantity, err)
		}
	}
}

// Get returns an order to its owner or to an admin.
func (s *Service) Get(orderID int, requestingUserID int, requestingIsAdmin bool) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != requestingUserID && !requestingIsAdmin {
		return Order{}, ErrNotAuthorized
	}
	return ord, nil
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.ListAll()
}

// MarkPaid flips the paid flag, records the time and stores the opaque
// payment result. Stock and pricing are untouched.
func (s *Service) MarkPaid(orderID int, result PaymentResult) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}

	ord.IsPaid = true
	ord.PaidAt = s.now()
	ord.PaymentResult = result
	return s.repo.Update(ord)
}

// MarkDelivered flips the delivered flag and records the time. Repeat calls
// re-set the flag rather than failing, and delivery does not require prior
// payment.
func (s *Service) MarkDelivered(orderID int) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}

	ord.IsDelivered = true
	ord.DeliveredAt = s.now()
	return s.repo.Update(ord)
}
