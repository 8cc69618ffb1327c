package importer

import (
	"context"
	"strings"

	"github.com/pitangasoft/compras_backend/models"
	"github.com/pitangasoft/compras_backend/utils"
)

// catalog resolves row values to supplier and product ids, creating catalog
// rows on first sight. Lookups run against in-memory indexes built once per
// import, so a thousand-row batch costs two catalog scans up front instead
// of two queries per row.
type catalog struct {
	suppliers map[string]int // canonical document -> supplier id
	products  map[string]int // normalized name -> product id
	genericId int

	createSupplier func(ctx context.Context, document string, legalName string) (*models.Supplier, error)
	createProduct  func(ctx context.Context, name string, unitHint string) (*models.Product, error)
}

func newCatalog(ctx context.Context) (*catalog, error) {
	c := &catalog{
		suppliers: map[string]int{},
		products:  map[string]int{},
	}
	c.createSupplier = func(ctx context.Context, document string, legalName string) (*models.Supplier, error) {
		return models.CreateImportedSupplier(ctx, document, legalName)
	}
	c.createProduct = func(ctx context.Context, name string, unitHint string) (*models.Product, error) {
		return models.CreateImportedProduct(ctx, name, unitHint)
	}

	suppliers, err := models.GetSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	for _, supplier := range suppliers {
		document := utils.DigitsOnly(supplier.Document)
		if document == models.GenericSupplierDocument {
			c.genericId = supplier.ID
			continue
		}
		if _, seen := c.suppliers[document]; !seen {
			c.suppliers[document] = supplier.ID
		}
	}

	products, err := models.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		key := utils.NormalizeText(product.Name)
		if _, seen := c.products[key]; !seen {
			c.products[key] = product.ID
		}
	}
	return c, nil
}

// resolveSupplier maps a document cell to a supplier id. Rows without a
// usable document book against the shared generic supplier; unknown
// documents create a supplier named after the hint, or after the document
// itself when the sheet carries no supplier name.
func (c *catalog) resolveSupplier(ctx context.Context, rawDocument string, nameHint string) (int, error) {
	document := utils.DigitsOnly(rawDocument)
	if document == "" || document == models.GenericSupplierDocument {
		return c.genericSupplier(ctx)
	}
	if id, ok := c.suppliers[document]; ok {
		return id, nil
	}

	legalName := strings.TrimSpace(nameHint)
	if legalName == "" {
		legalName = "Fornecedor " + document
	}
	supplier, err := c.createSupplier(ctx, document, legalName)
	if err != nil {
		return 0, err
	}
	c.suppliers[document] = supplier.ID
	return supplier.ID, nil
}

func (c *catalog) genericSupplier(ctx context.Context) (int, error) {
	if c.genericId != 0 {
		return c.genericId, nil
	}
	supplier, err := c.createSupplier(ctx, models.GenericSupplierDocument, models.GenericSupplierName)
	if err != nil {
		return 0, err
	}
	c.genericId = supplier.ID
	return supplier.ID, nil
}

// resolveProduct maps a description cell to a product id, deduplicating on
// the normalized name so "CAFÉ  Torrado" and "cafe torrado" land on one
// catalog row.
func (c *catalog) resolveProduct(ctx context.Context, description string, unitHint string) (int, error) {
	key := utils.NormalizeText(description)
	if id, ok := c.products[key]; ok {
		return id, nil
	}

	product, err := c.createProduct(ctx, strings.TrimSpace(description), unitHint)
	if err != nil {
		return 0, err
	}
	c.products[key] = product.ID
	return product.ID, nil
}
