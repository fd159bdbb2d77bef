package model

import "time"

// OrderStatus values the remote API reports for an order.
type OrderStatus string

const (
	StatusReceived   OrderStatus = "received"
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Order is one entry in the caller's order history.
type Order struct {
	ID            uint        `json:"id"`
	UserID        uint        `json:"user_id"`
	Status        OrderStatus `json:"status"`
	TotalWeight   float64     `json:"total_weight"`
	OrderProducts []OrderLine `json:"order_products"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderLine is what crosses the wire for each cart line on submission:
// identifiers and quantity only, display snapshots are dropped.
type OrderLine struct {
	ProductID        uint `json:"product_id"`
	ProductVariantID uint `json:"product_variant_id"`
	Quantity         int  `json:"quantity"`
}
