package models

// Product is a catalog product as embedded in cart lines. The catalog itself
// is owned elsewhere; the cart core only relies on ID and Price.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	Available     bool    `json:"available"`
	StockQuantity int     `json:"stockQuantity"`
}

// CartItem is one line of a server-side cart.
type CartItem struct {
	// ID is the server-assigned line-item identity used for removal.
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is an ordered sequence of cart lines mirrored from the server.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Len returns the number of lines.
func (c Cart) Len() int { return len(c.Items) }

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Total sums price * quantity over all lines.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

// Clone returns a copy whose Items slice does not alias c.
func (c Cart) Clone() Cart {
	if len(c.Items) == 0 {
		return Cart{}
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
