package store

import (
	"encoding/json"
	"sync"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/harvestgreens/storefront/pkg/logger"
)

type cartActionType string

const (
	actionAddItem        cartActionType = "ADD_ITEM"
	actionRemoveItem     cartActionType = "REMOVE_ITEM"
	actionUpdateQuantity cartActionType = "UPDATE_QUANTITY"
	actionClearCart      cartActionType = "CLEAR_CART"
	actionLoadCart       cartActionType = "LOAD_CART"
)

type cartAction struct {
	Type      cartActionType
	Product   model.Product
	Variant   model.Variant
	ProductID uint
	VariantID uint
	Quantity  int
	State     model.CartState
}

// reduceCart computes the next cart state for an action. It is pure: the
// input state is not mutated, and TotalItems is recomputed on every path
// that touches the lines.
func reduceCart(state model.CartState, action cartAction) model.CartState {
	switch action.Type {
	case actionAddItem:
		quantity := action.Quantity
		if quantity < 1 {
			quantity = 1
		}

		items := make([]model.CartLine, len(state.Items))
		copy(items, state.Items)

		found := false
		for i := range items {
			if items[i].ProductID == action.Product.ID && items[i].VariantID == action.Variant.ID {
				items[i].Quantity += quantity
				found = true
				break
			}
		}
		if !found {
			items = append(items, model.CartLine{
				ProductID: action.Product.ID,
				VariantID: action.Variant.ID,
				Quantity:  quantity,
				Product:   action.Product,
				Variant:   action.Variant,
			})
		}
		return recalculateTotals(model.CartState{Items: items})

	case actionRemoveItem:
		items := make([]model.CartLine, 0, len(state.Items))
		for _, line := range state.Items {
			if line.ProductID == action.ProductID && line.VariantID == action.VariantID {
				continue
			}
			items = append(items, line)
		}
		return recalculateTotals(model.CartState{Items: items})

	case actionUpdateQuantity:
		quantity := action.Quantity
		if quantity < 1 {
			quantity = 1
		}

		items := make([]model.CartLine, len(state.Items))
		copy(items, state.Items)
		for i := range items {
			if items[i].ProductID == action.ProductID && items[i].VariantID == action.VariantID {
				items[i].Quantity = quantity
			}
		}
		return recalculateTotals(model.CartState{Items: items})

	case actionClearCart:
		return model.CartState{Items: []model.CartLine{}}

	case actionLoadCart:
		return recalculateTotals(action.State)

	default:
		return state
	}
}

func recalculateTotals(state model.CartState) model.CartState {
	total := 0
	for _, line := range state.Items {
		total += line.Quantity
	}
	state.TotalItems = total
	return state
}

// CartStore holds the authoritative in-memory cart and mirrors every change
// to the local store under the cart key. Construct one per application and
// inject it; there is no package-level instance.
type CartStore struct {
	mu    sync.Mutex
	state model.CartState
	local localstore.Store
}

// NewCartStore rehydrates the cart from the local store. Malformed or missing
// persisted data fails open to an empty cart and never surfaces an error.
func NewCartStore(local localstore.Store) *CartStore {
	s := &CartStore{
		state: model.CartState{Items: []model.CartLine{}},
		local: local,
	}

	data, ok, err := local.Get(localstore.KeyCart)
	if err != nil {
		logger.Warn("Failed to read persisted cart, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return s
	}
	if !ok {
		return s
	}

	var saved model.CartState
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.Warn("Persisted cart is malformed, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return s
	}

	s.state = reduceCart(s.state, cartAction{Type: actionLoadCart, State: saved})
	logger.Debug("Cart rehydrated", map[string]interface{}{
		"lines":       len(s.state.Items),
		"total_items": s.state.TotalItems,
	})
	return s
}

// dispatch applies an action and persists the resulting state. The in-memory
// state advances even when the write fails; the error reports the failed
// mirror write.
func (s *CartStore) dispatch(action cartAction) error {
	s.state = reduceCart(s.state, action)

	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	if err := s.local.Set(localstore.KeyCart, data); err != nil {
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"action": string(action.Type),
		})
		return err
	}
	return nil
}

// AddItem appends a line for (product, variant) or increments the existing
// one. Quantity below 1 is clamped to 1.
func (s *CartStore) AddItem(product model.Product, variant model.Variant, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Adding item to cart", map[string]interface{}{
		"product_id": product.ID,
		"variant_id": variant.ID,
		"quantity":   quantity,
	})

	return s.dispatch(cartAction{
		Type:     actionAddItem,
		Product:  product,
		Variant:  variant,
		Quantity: quantity,
	})
}

// RemoveItem deletes the matching line. Removing an absent pair is a no-op.
func (s *CartStore) RemoveItem(productID, variantID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Removing item from cart", map[string]interface{}{
		"product_id": productID,
		"variant_id": variantID,
	})

	return s.dispatch(cartAction{
		Type:      actionRemoveItem,
		ProductID: productID,
		VariantID: variantID,
	})
}

// UpdateQuantity replaces the matching line's quantity, clamped to at least 1.
// An absent pair is a no-op.
func (s *CartStore) UpdateQuantity(productID, variantID uint, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Updating cart quantity", map[string]interface{}{
		"product_id": productID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	return s.dispatch(cartAction{
		Type:      actionUpdateQuantity,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
}

// Clear resets the cart to empty.
func (s *CartStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Clearing cart")
	return s.dispatch(cartAction{Type: actionClearCart})
}

// Snapshot returns a copy of the current cart state for display and checkout.
func (s *CartStore) Snapshot() model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.CartLine, len(s.state.Items))
	copy(items, s.state.Items)
	return model.CartState{Items: items, TotalItems: s.state.TotalItems}
}

// TotalItems returns the derived item count.
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems
}
