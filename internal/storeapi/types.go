package storeapi

import (
	"github.com/harvestgreens/storefront/internal/app/model"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /signup
type SignupRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Mobile               string `json:"mobile"`
	Address              string `json:"address"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthResponse is returned by both /login and /signup on success
type AuthResponse struct {
	Token   string     `json:"token"`
	User    model.User `json:"user"`
	Message string     `json:"message,omitempty"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	UserID        uint              `json:"user_id"`
	TotalWeight   float64           `json:"total_weight"`
	Status        string            `json:"status"`
	OrderProducts []model.OrderLine `json:"order_products"`
}

// CreateOrderResponse is the success envelope of POST /orders
type CreateOrderResponse struct {
	Message string      `json:"message"`
	Order   model.Order `json:"order"`
}

// Read endpoints wrap their payload in a data envelope.

type productListEnvelope struct {
	Data []model.Product `json:"data"`
}

type productEnvelope struct {
	Data model.Product `json:"data"`
}

type categoryListEnvelope struct {
	Data []model.Category `json:"data"`
}

type orderListEnvelope struct {
	Data []model.Order `json:"data"`
}

type userEnvelope struct {
	Data model.User `json:"data"`
}
