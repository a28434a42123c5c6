package catalog

import (
	"github.com/talkincode/arcatalog/internal/domain"
)

// DefaultProducts returns the built-in seed catalog.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Sort:        0,
			Name:        "Red velvet cake",
			Description: "A layered red velvet cake with cream cheese frosting.",
			ImageURL:    "/images/redVelvet.jpg",
			ModelURL:    "/models/redVelvet.glb",
			Scale:       1,
			Dimensions:  domain.ProductDimensions{Width: 0.8, Height: 0.9, Depth: 0.85},
			Category:    domain.StringPtr("Dessert"),
			Price:       domain.Float64Ptr(5.99),
		},
		{
			ID:          "2",
			Sort:        1,
			Name:        "Nachos",
			Description: "Tortilla chips loaded with cheese, jalapenos and salsa.",
			ImageURL:    "/images/nachos.jpg",
			ModelURL:    "/models/nachos.glb",
			Scale:       1,
			Dimensions:  domain.ProductDimensions{Width: 0.8, Height: 0.9, Depth: 0.85},
			Category:    domain.StringPtr("Dessert"),
			Price:       domain.Float64Ptr(5.99),
		},
		{
			ID:          "3",
			Sort:        2,
			Name:        "Sushi",
			Description: "Assorted nigiri and maki rolls.",
			ImageURL:    "/images/sushi.jpg",
			ModelURL:    "/models/cielomar.glb",
			Scale:       1,
			Dimensions:  domain.ProductDimensions{Width: 0.8, Height: 0.9, Depth: 0.85},
			Category:    domain.StringPtr("Dessert"),
			Price:       domain.Float64Ptr(5.99),
		},
	}
}
