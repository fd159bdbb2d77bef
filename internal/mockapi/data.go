package mockapi

import "github.com/harvestgreens/storefront/internal/app/model"

func price(v float64) *float64 { return &v }

// seedCatalog is the demo produce catalog served when the mock API starts.
func seedCatalog() []model.Product {
	variants := func(base uint) []model.Variant {
		return []model.Variant{
			{ID: base + 1, Weight: 0.5, Unit: "kg"},
			{ID: base + 2, Weight: 1, Unit: "kg"},
			{ID: base + 3, Weight: 2, Unit: "kg"},
		}
	}

	return []model.Product{
		{
			ID: 1, Name: "Organic Strawberries", Category: "fruits",
			Price: 4.99, DiscountPrice: price(3.99),
			Details: "Hand-picked organic strawberries",
			Organic: true, Seasonal: true, Featured: true,
			Variants: variants(10),
		},
		{
			ID: 2, Name: "Fresh Broccoli", Category: "vegetables",
			Price: 2.49, Details: "Crisp broccoli crowns",
			Organic: true, Featured: true,
			Variants: variants(20),
		},
		{
			ID: 3, Name: "Red Apples", Category: "fruits",
			Price: 3.29, Details: "Sweet red apples",
			Seasonal: true, Featured: true,
			Variants: variants(30),
		},
		{
			ID: 4, Name: "Organic Bell Peppers", Category: "vegetables",
			Price: 3.99, DiscountPrice: price(2.99),
			Details: "Mixed-color organic bell peppers",
			Organic: true, Featured: true,
			Variants: variants(40),
		},
		{
			ID: 5, Name: "Fresh Avocados", Category: "fruits",
			Price: 5.99, Details: "Ready-to-eat avocados",
			Seasonal: true, Featured: true,
			Variants: variants(50),
		},
		{
			ID: 6, Name: "Organic Carrots", Category: "vegetables",
			Price: 1.99, Details: "Bunched organic carrots",
			Organic: true, Featured: true,
			Variants: variants(60),
		},
		{
			ID: 7, Name: "Bananas", Category: "fruits",
			Price: 1.49, Details: "Cavendish bananas",
			Featured: true,
			Variants: variants(70),
		},
		{
			ID: 8, Name: "Organic Kale", Category: "vegetables",
			Price: 2.79, DiscountPrice: price(2.29),
			Details: "Curly organic kale",
			Organic: true, Seasonal: true, Featured: true,
			Variants: variants(80),
		},
	}
}

func seedCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Fruits", Slug: "fruits"},
		{ID: 2, Name: "Vegetables", Slug: "vegetables"},
		{ID: 3, Name: "Organic", Slug: "organic"},
		{ID: 4, Name: "Seasonal", Slug: "seasonal"},
	}
}
