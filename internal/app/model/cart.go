package model

// CartLine is one entry in the cart, unique per (ProductID, VariantID) pair.
// Product and Variant are display snapshots captured at add-time.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	VariantID uint    `json:"variant_id"`
	Quantity  int     `json:"quantity"`
	Product   Product `json:"product"`
	Variant   Variant `json:"variant"`
}

// CartState is the full cart. TotalItems is derived from the lines and
// recomputed after every mutation; it is never set independently.
type CartState struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"total_items"`
}

// TotalWeight sums variant weight times quantity over all lines. Units are as
// the catalog reports them; the remote API receives the raw sum.
func (s CartState) TotalWeight() float64 {
	var total float64
	for _, line := range s.Items {
		total += line.Variant.Weight * float64(line.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

// WishlistState is the saved-for-later product list, persisted whole like the
// cart. Entries are product snapshots captured at save-time.
type WishlistState struct {
	Items []Product `json:"items"`
}
