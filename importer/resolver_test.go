package importer

import (
	"context"
	"testing"

	"github.com/pitangasoft/compras_backend/models"
)

// stubCatalog builds a catalog backed by counters instead of the database.
func stubCatalog() (*catalog, *int, *int) {
	supplierCreates := 0
	productCreates := 0
	nextSupplierId := 100
	nextProductId := 200

	c := &catalog{
		suppliers: map[string]int{},
		products:  map[string]int{},
	}
	c.createSupplier = func(ctx context.Context, document string, legalName string) (*models.Supplier, error) {
		supplierCreates++
		nextSupplierId++
		return &models.Supplier{ID: nextSupplierId, Document: document, LegalName: legalName}, nil
	}
	c.createProduct = func(ctx context.Context, name string, unitHint string) (*models.Product, error) {
		productCreates++
		nextProductId++
		return &models.Product{ID: nextProductId, Name: name}, nil
	}
	return c, &supplierCreates, &productCreates
}

func TestResolveSupplierDedupsOnCanonicalDocument(t *testing.T) {
	ctx := context.Background()
	c, creates, _ := stubCatalog()

	first, err := c.resolveSupplier(ctx, "12.345.678/0001-95", "Distribuidora Alfa")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := c.resolveSupplier(ctx, "12345678000195", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first != second {
		t.Fatalf("expected one supplier, got ids %d and %d", first, second)
	}
	if *creates != 1 {
		t.Fatalf("expected 1 create, got %d", *creates)
	}
}

func TestResolveSupplierWithoutDocumentUsesGeneric(t *testing.T) {
	ctx := context.Background()
	c, creates, _ := stubCatalog()

	first, err := c.resolveSupplier(ctx, "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := c.resolveSupplier(ctx, "sem documento", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first != second {
		t.Fatalf("expected the shared generic supplier, got ids %d and %d", first, second)
	}
	if *creates != 1 {
		t.Fatalf("expected 1 create, got %d", *creates)
	}
}

func TestResolveSupplierReusesSeededGeneric(t *testing.T) {
	ctx := context.Background()
	c, creates, _ := stubCatalog()
	c.genericId = 7

	id, err := c.resolveSupplier(ctx, "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected seeded generic id 7, got %d", id)
	}
	if *creates != 0 {
		t.Fatalf("expected no creates, got %d", *creates)
	}
}

func TestResolveProductDedupsOnNormalizedName(t *testing.T) {
	ctx := context.Background()
	c, _, creates := stubCatalog()

	first, err := c.resolveProduct(ctx, "CAFÉ  Torrado 500g", "PCT")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := c.resolveProduct(ctx, "cafe torrado 500g", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if first != second {
		t.Fatalf("expected one product, got ids %d and %d", first, second)
	}
	if *creates != 1 {
		t.Fatalf("expected 1 create, got %d", *creates)
	}
}

func TestResolveProductDistinctNames(t *testing.T) {
	ctx := context.Background()
	c, _, creates := stubCatalog()

	first, _ := c.resolveProduct(ctx, "Arroz Branco 5kg", "")
	second, _ := c.resolveProduct(ctx, "Arroz Integral 5kg", "")
	if first == second {
		t.Fatal("expected distinct products")
	}
	if *creates != 2 {
		t.Fatalf("expected 2 creates, got %d", *creates)
	}
}
