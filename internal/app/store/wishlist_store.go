package store

import (
	"encoding/json"
	"sync"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/localstore"
	"github.com/harvestgreens/storefront/pkg/logger"
)

type wishlistActionType string

const (
	wishlistAdd    wishlistActionType = "ADD_ITEM"
	wishlistRemove wishlistActionType = "REMOVE_ITEM"
	wishlistClear  wishlistActionType = "CLEAR"
	wishlistLoad   wishlistActionType = "LOAD"
)

type wishlistAction struct {
	Type      wishlistActionType
	Product   model.Product
	ProductID uint
	State     model.WishlistState
}

// reduceWishlist computes the next wishlist state for an action. Products are
// keyed by ID; adding one already present is a no-op.
func reduceWishlist(state model.WishlistState, action wishlistAction) model.WishlistState {
	switch action.Type {
	case wishlistAdd:
		for _, p := range state.Items {
			if p.ID == action.Product.ID {
				return state
			}
		}
		items := make([]model.Product, len(state.Items))
		copy(items, state.Items)
		return model.WishlistState{Items: append(items, action.Product)}

	case wishlistRemove:
		items := make([]model.Product, 0, len(state.Items))
		for _, p := range state.Items {
			if p.ID == action.ProductID {
				continue
			}
			items = append(items, p)
		}
		return model.WishlistState{Items: items}

	case wishlistClear:
		return model.WishlistState{Items: []model.Product{}}

	case wishlistLoad:
		if action.State.Items == nil {
			return model.WishlistState{Items: []model.Product{}}
		}
		return action.State

	default:
		return state
	}
}

// WishlistStore holds the saved-for-later products and mirrors every change
// to the local store under the wishlist key, the same way CartStore mirrors
// the cart.
type WishlistStore struct {
	mu    sync.Mutex
	state model.WishlistState
	local localstore.Store
}

// NewWishlistStore rehydrates the wishlist from the local store. Malformed or
// missing persisted data fails open to an empty list.
func NewWishlistStore(local localstore.Store) *WishlistStore {
	s := &WishlistStore{
		state: model.WishlistState{Items: []model.Product{}},
		local: local,
	}

	data, ok, err := local.Get(localstore.KeyWishlist)
	if err != nil {
		logger.Warn("Failed to read persisted wishlist, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return s
	}
	if !ok {
		return s
	}

	var saved model.WishlistState
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.Warn("Persisted wishlist is malformed, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return s
	}

	s.state = reduceWishlist(s.state, wishlistAction{Type: wishlistLoad, State: saved})
	logger.Debug("Wishlist rehydrated", map[string]interface{}{
		"items": len(s.state.Items),
	})
	return s
}

func (s *WishlistStore) dispatch(action wishlistAction) error {
	s.state = reduceWishlist(s.state, action)

	data, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	if err := s.local.Set(localstore.KeyWishlist, data); err != nil {
		logger.Error("Failed to persist wishlist", err, map[string]interface{}{
			"action": string(action.Type),
		})
		return err
	}
	return nil
}

// Add saves a product. Adding one already on the list is a no-op.
func (s *WishlistStore) Add(product model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Adding product to wishlist", map[string]interface{}{
		"product_id": product.ID,
	})

	return s.dispatch(wishlistAction{Type: wishlistAdd, Product: product})
}

// Remove drops the product with the given ID. An absent ID is a no-op.
func (s *WishlistStore) Remove(productID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Removing product from wishlist", map[string]interface{}{
		"product_id": productID,
	})

	return s.dispatch(wishlistAction{Type: wishlistRemove, ProductID: productID})
}

// Clear resets the wishlist to empty.
func (s *WishlistStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Info("Clearing wishlist")
	return s.dispatch(wishlistAction{Type: wishlistClear})
}

// Contains reports whether the product is on the list.
func (s *WishlistStore) Contains(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.state.Items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the saved products in insertion order.
func (s *WishlistStore) Items() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Product, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}
