package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/app/store"
	"github.com/harvestgreens/storefront/pkg/logger"
	"github.com/harvestgreens/storefront/internal/storeapi"
)

var (
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrOrderSubmissionFailed = errors.New("order submission failed")
)

// OrderAPI is the slice of the remote API the checkout flow consumes.
type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req storeapi.CreateOrderRequest, idempotencyKey string) (*storeapi.CreateOrderResponse, error)
}

type CheckoutService interface {
	PlaceOrder(ctx context.Context) (*model.Order, error)
}

type checkoutService struct {
	cart    *store.CartStore
	session *store.SessionStore
	api     OrderAPI
}

func NewCheckoutService(cart *store.CartStore, session *store.SessionStore, api OrderAPI) CheckoutService {
	return &checkoutService{
		cart:    cart,
		session: session,
		api:     api,
	}
}

// PlaceOrder converts the current cart into a single order-creation request.
// Preconditions (logged-in session, non-empty cart) are checked before any
// network call. On success the cart is cleared; on failure it is untouched so
// the user can retry. Every submission carries a fresh idempotency key so a
// retry after a timeout cannot double-submit on servers that honor it.
func (s *checkoutService) PlaceOrder(ctx context.Context) (*model.Order, error) {
	if !s.session.IsLoggedIn() {
		logger.Warn("Checkout blocked: not authenticated")
		return nil, ErrNotAuthenticated
	}

	cart := s.cart.Snapshot()
	if cart.IsEmpty() {
		logger.Warn("Checkout blocked: empty cart")
		return nil, ErrEmptyCart
	}

	user := s.session.CurrentUser()
	idempotencyKey := uuid.NewString()

	orderProducts := make([]model.OrderLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		orderProducts = append(orderProducts, model.OrderLine{
			ProductID:        line.ProductID,
			ProductVariantID: line.VariantID,
			Quantity:         line.Quantity,
		})
	}

	req := storeapi.CreateOrderRequest{
		UserID:        user.ID,
		TotalWeight:   cart.TotalWeight(),
		Status:        string(model.StatusReceived),
		OrderProducts: orderProducts,
	}

	logger.Info("Submitting order", map[string]interface{}{
		"user_id":         user.ID,
		"lines":           len(orderProducts),
		"total_items":     cart.TotalItems,
		"total_weight":    req.TotalWeight,
		"idempotency_key": idempotencyKey,
	})

	resp, err := s.api.CreateOrder(ctx, s.session.Token(), req, idempotencyKey)
	if err != nil {
		logger.Error("Order submission failed", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("%w: %w", ErrOrderSubmissionFailed, err)
	}

	if err := s.cart.Clear(); err != nil {
		// The order exists; a stale cart mirror is recoverable. Report it
		// without failing the order.
		logger.Error("Order placed but cart clear failed", err, map[string]interface{}{
			"order_id": resp.Order.ID,
		})
	}

	logger.Info("Order placed successfully", map[string]interface{}{
		"order_id": resp.Order.ID,
		"user_id":  user.ID,
	})

	order := resp.Order
	return &order, nil
}
