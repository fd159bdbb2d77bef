package model

// Product is the catalog view of an item as the remote API serves it. The
// cart keeps a snapshot of these fields at add-time; they are not refreshed
// afterwards.
type Product struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Details       string    `json:"details"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price"`
	ImageURL      string    `json:"image"`
	Featured      bool      `json:"featured"`
	Organic       bool      `json:"organic"`
	Seasonal      bool      `json:"seasonal"`
	Variants      []Variant `json:"variants,omitempty"`
}

// Variant is a purchasable pack configuration of a product, e.g. a 500g bag.
type Variant struct {
	ID     uint    `json:"id"`
	Weight float64 `json:"weight"`
	Unit   string  `json:"unit"`
}

// EffectivePrice returns the discount price when one is set.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// FindVariant returns the variant with the given ID, if the product has one.
func (p Product) FindVariant(variantID uint) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

// Category is a browsable product grouping.
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
