package service

import (
	"context"
	"fmt"
	"time"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/internal/app/store"
	"github.com/harvestgreens/storefront/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// OrdersPerPage matches the storefront's order-history page size.
const OrdersPerPage = 5

// HistoryAPI is the slice of the remote API the order history consumes.
type HistoryAPI interface {
	Orders(ctx context.Context, token string) ([]model.Order, error)
}

// OrderPage is one page of order history.
type OrderPage struct {
	Orders     []model.Order
	Page       int
	TotalPages int
	TotalCount int
}

type OrderService interface {
	History(ctx context.Context, page int) (*OrderPage, error)
	ExportXLSX(ctx context.Context, path string) error
}

type orderService struct {
	session *store.SessionStore
	api     HistoryAPI
}

func NewOrderService(session *store.SessionStore, api HistoryAPI) OrderService {
	return &orderService{
		session: session,
		api:     api,
	}
}

// History returns the requested page of the caller's orders. Pages are
// 1-based; out-of-range pages clamp to the nearest valid one.
func (s *orderService) History(ctx context.Context, page int) (*OrderPage, error) {
	if !s.session.IsLoggedIn() {
		return nil, ErrNotAuthenticated
	}

	orders, err := s.api.Orders(ctx, s.session.Token())
	if err != nil {
		logger.Error("Failed to fetch order history", err)
		return nil, err
	}

	totalPages := (len(orders) + OrdersPerPage - 1) / OrdersPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * OrdersPerPage
	end := start + OrdersPerPage
	if start > len(orders) {
		start = len(orders)
	}
	if end > len(orders) {
		end = len(orders)
	}

	return &OrderPage{
		Orders:     orders[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: len(orders),
	}, nil
}

// ExportXLSX writes the full order history to a spreadsheet, one row per
// order.
func (s *orderService) ExportXLSX(ctx context.Context, path string) error {
	if !s.session.IsLoggedIn() {
		return ErrNotAuthenticated
	}

	orders, err := s.api.Orders(ctx, s.session.Token())
	if err != nil {
		logger.Error("Failed to fetch orders for export", err)
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"Order ID", "Status", "Total Weight", "Items", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, order := range orders {
		items := 0
		for _, line := range order.OrderProducts {
			items += line.Quantity
		}
		values := []interface{}{
			order.ID,
			string(order.Status),
			order.TotalWeight,
			items,
			order.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}

	logger.Info("Order history exported", map[string]interface{}{
		"path":   path,
		"orders": len(orders),
	})
	return nil
}
