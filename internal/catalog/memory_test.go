package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/talkincode/arcatalog/internal/domain"
)

func TestMemoryRepositoryRejectsDuplicates(t *testing.T) {
	products := append(DefaultProducts(), DefaultProducts()[0])
	if _, err := NewMemoryRepository(products); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("Expected ErrInvalidProduct for duplicate id, got %v", err)
	}
}

func TestMemoryRepositoryRejectsInvalid(t *testing.T) {
	products := DefaultProducts()
	products[1].Scale = 0
	if _, err := NewMemoryRepository(products); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("Expected ErrInvalidProduct, got %v", err)
	}
}

func TestMemoryRepositoryRejectsPaddedID(t *testing.T) {
	products := DefaultProducts()
	products[0].ID = " A "
	if _, err := NewMemoryRepository(products); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("Expected ErrInvalidProduct for padded id, got %v", err)
	}
}

func TestMemoryRepositoryGet(t *testing.T) {
	repo, err := NewMemoryRepository(DefaultProducts())
	if err != nil {
		t.Fatal(err)
	}
	if repo.Len() != 3 {
		t.Fatalf("Expected 3 products, got %d", repo.Len())
	}
	p, err := repo.Get(context.Background(), "3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.ModelURL != "/models/cielomar.glb" {
		t.Errorf("unexpected model url %s", p.ModelURL)
	}
	if _, err := repo.Get(context.Background(), "4"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepositoryNormalizesCategory(t *testing.T) {
	products := DefaultProducts()
	products[0].Category = domain.StringPtr("")
	repo, err := NewMemoryRepository(products)
	if err != nil {
		t.Fatal(err)
	}
	p, err := repo.Get(context.Background(), "1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Category != nil {
		t.Fatalf("Expected empty category to be absent, got %q", *p.Category)
	}
}

func TestMemoryRepositoryDoesNotAliasInput(t *testing.T) {
	products := DefaultProducts()
	repo, err := NewMemoryRepository(products)
	if err != nil {
		t.Fatal(err)
	}
	*products[0].Category = "Changed"
	p, _ := repo.Get(context.Background(), "1")
	if p.CategoryName() != "Dessert" {
		t.Fatalf("repository shares memory with its input: %s", p.CategoryName())
	}
}

func TestDefaultProductsIndependentContent(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range DefaultProducts() {
		if seen[p.ModelURL] || seen[p.ImageURL] {
			t.Errorf("product %s reuses an asset url", p.ID)
		}
		seen[p.ModelURL] = true
		seen[p.ImageURL] = true
	}
}
