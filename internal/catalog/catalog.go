// Package catalog holds the fixed product list. Products are immutable at
// runtime; there is intentionally no management surface for them.
package catalog

import (
	"fmt"

	dErrors "shopstream/pkg/domain-errors"
)

// Product describes one sellable item. Name doubles as the stock key.
// Options affect the inventory label only, never the price.
type Product struct {
	Name      string   `json:"name"`
	Brand     string   `json:"brand"`
	Price     int64    `json:"price"`
	SalePrice int64    `json:"sale_price"`
	ImageURL  string   `json:"image_url"`
	Options   []string `json:"options,omitempty"`
}

// UnitPrice is the amount charged per unit. The selected option is accepted
// for symmetry with ItemLabel but does not influence the price.
func (p Product) UnitPrice(option string) int64 {
	_ = option
	return p.SalePrice
}

// HasOption reports whether option is valid for this product. The empty
// option is always valid.
func (p Product) HasOption(option string) bool {
	if option == "" {
		return true
	}
	for _, o := range p.Options {
		if o == option {
			return true
		}
	}
	return false
}

// ItemLabel is the inventory and cart key: the product name, or
// "name (option)" when an option was selected.
func ItemLabel(product Product, option string) string {
	if option == "" {
		return product.Name
	}
	return fmt.Sprintf("%s (%s)", product.Name, option)
}

var products = []Product{
	{
		Name:      "Laptop",
		Brand:     "Nimbus",
		Price:     2_300_000,
		SalePrice: 2_190_000,
		ImageURL:  "https://img.shopstream.dev/laptop.png",
		Options:   []string{"16GB RAM", "32GB RAM"},
	},
	{
		Name:      "Monitor",
		Brand:     "ClearView",
		Price:     700_000,
		SalePrice: 640_000,
		ImageURL:  "https://img.shopstream.dev/monitor.png",
		Options:   []string{"27 inch", "32 inch"},
	},
	{
		Name:      "Robux 150000",
		Brand:     "Roblox",
		Price:     150_000,
		SalePrice: 150_000,
		ImageURL:  "https://img.shopstream.dev/robux.png",
	},
	{
		Name:      "Air Conditioner",
		Brand:     "CoolMaster",
		Price:     3_700_000,
		SalePrice: 3_450_000,
		ImageURL:  "https://img.shopstream.dev/aircon.png",
		Options:   []string{"White", "Silver"},
	},
}

// All returns the full catalog in display order. The returned slice is a
// copy; callers may not mutate the catalog.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// Lookup finds a product by its exact name.
func Lookup(name string) (Product, error) {
	for _, p := range products {
		if p.Name == name {
			return p, nil
		}
	}
	return Product{}, dErrors.Newf(dErrors.CodeNotFound, "unknown product %q", name)
}
