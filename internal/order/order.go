package order

// Line is an immutable snapshot of a catalog product taken when the order was
// placed, so later catalog edits cannot alter historical orders.
type Line struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentResult is the opaque record handed back by whatever processed the
// payment. Its keys are not interpreted here.
type PaymentResult map[string]string

// Order is created once by the workflow; afterwards only the paid/delivered
// flags and their timestamps change.
type Order struct {
	ID              int             `json:"orderId"`
	Ref             string          `json:"orderRef"`
	UserID          int             `json:"userId"`
	Items           []Line          `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          string          `json:"paidAt,omitempty"`
	PaymentResult   PaymentResult   `json:"paymentResult,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     string          `json:"deliveredAt,omitempty"`
	CreatedAt       string          `json:"createdAt"`
}

// Status derives the lifecycle stage from the flags: created, paid, delivered.
func (o Order) Status() string {
	switch {
	case o.IsDelivered:
		return "delivered"
	case o.IsPaid:
		return "paid"
	default:
		return "created"
	}
}
