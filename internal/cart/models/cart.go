// Package models defines the shopping cart data shapes.
package models

// Line is one cart entry. Label is the inventory key ("name" or
// "name (option)") and is fixed when the line is added; ProductName and
// Option are kept so prices can be resolved against the catalog at read
// time rather than frozen into the cart.
type Line struct {
	Label       string `json:"label"`
	ProductName string `json:"product_name"`
	Option      string `json:"option,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// PricedLine is a cart line with its current catalog pricing applied.
type PricedLine struct {
	Label     string `json:"label"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// View is the priced cart as returned to clients.
type View struct {
	Lines []PricedLine `json:"lines"`
	Total int64        `json:"total"`
}
