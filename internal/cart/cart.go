package cart

// Line is a raw (product, quantity) pairing as stored on the user row.
type Line struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Item is a cart line enriched with catalog details for display.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}
