package service

import (
	"context"
	"errors"
	"strings"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/pkg/logger"
	"github.com/harvestgreens/storefront/internal/storeapi"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogAPI is the slice of the remote API the catalog consumes.
type CatalogAPI interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id uint) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// ProductFilters narrows a catalog listing. Zero values mean "no filter".
type ProductFilters struct {
	Category string
	Organic  bool
	Seasonal bool
	MinPrice float64
	MaxPrice float64
}

type CatalogService interface {
	ListProducts(ctx context.Context, filters ProductFilters) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type catalogService struct {
	api CatalogAPI
}

func NewCatalogService(api CatalogAPI) CatalogService {
	return &catalogService{api: api}
}

// ListProducts fetches the catalog and filters it client-side, the way the
// storefront's product page does. The special categories "organic" and
// "seasonal" select by flag rather than by category name.
func (s *catalogService) ListProducts(ctx context.Context, filters ProductFilters) ([]model.Product, error) {
	products, err := s.api.Products(ctx)
	if err != nil {
		logger.Error("Failed to fetch products", err)
		return nil, err
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !matchesFilters(p, filters) {
			continue
		}
		filtered = append(filtered, p)
	}

	logger.Debug("Products listed", map[string]interface{}{
		"total":    len(products),
		"filtered": len(filtered),
	})
	return filtered, nil
}

func matchesFilters(p model.Product, filters ProductFilters) bool {
	switch strings.ToLower(filters.Category) {
	case "", "all":
	case "organic":
		if !p.Organic {
			return false
		}
	case "seasonal":
		if !p.Seasonal {
			return false
		}
	default:
		if !strings.EqualFold(p.Category, filters.Category) {
			return false
		}
	}

	if filters.Organic && !p.Organic {
		return false
	}
	if filters.Seasonal && !p.Seasonal {
		return false
	}

	price := p.EffectivePrice()
	if filters.MinPrice > 0 && price < filters.MinPrice {
		return false
	}
	if filters.MaxPrice > 0 && price > filters.MaxPrice {
		return false
	}
	return true
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.api.Product(ctx, id)
	if err != nil {
		if errors.Is(err, storeapi.ErrNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.api.Categories(ctx)
	if err != nil {
		logger.Error("Failed to fetch categories", err)
		return nil, err
	}
	return categories, nil
}
