package models

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/utils"
)

// DefaultUnit is assumed when a product arrives without a unit of measure.
const DefaultUnit = "UN"

type Product struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	BusinessId string `gorm:"size:100;index" json:"businessId"`
	Name       string `gorm:"size:255" json:"name"`
	Unit       string `gorm:"size:10" json:"unit"`
	FiscalCode string `gorm:"size:20" json:"fiscalCode"`
	IsActive   *bool  `gorm:"default:true" json:"isActive"`
	CreatedBy  int    `json:"createdBy"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type NewProduct struct {
	Name       string `json:"name" binding:"required"`
	Unit       string `json:"unit"`
	FiscalCode string `json:"fiscalCode"`
}

// NormalizeUnit trims, upper-cases and truncates a unit of measure to the
// column size, falling back to DefaultUnit when blank. Truncation counts
// runes so a multibyte character at the cut never leaves invalid UTF-8.
func NormalizeUnit(unit string) string {
	u := strings.ToUpper(strings.TrimSpace(unit))
	if u == "" {
		return DefaultUnit
	}
	if utf8.RuneCountInString(u) > 10 {
		u = string([]rune(u)[:10])
	}
	return u
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateUnique[Product](ctx, businessId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	product := Product{
		BusinessId: businessId,
		Name:       input.Name,
		Unit:       NormalizeUnit(input.Unit),
		FiscalCode: input.FiscalCode,
		IsActive:   utils.NewTrue(),
		CreatedBy:  createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateImportedProduct registers a catalog entry discovered during a bulk
// import. The name is stored as it appeared in the source row; dedup against
// near-duplicates happens on the normalized form, upstream.
func CreateImportedProduct(ctx context.Context, name string, unitHint string) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	product := Product{
		BusinessId: businessId,
		Name:       name,
		Unit:       NormalizeUnit(unitHint),
		IsActive:   utils.NewTrue(),
		CreatedBy:  createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Product](ctx, businessId, id)
}

func GetProducts(ctx context.Context) ([]*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Product](ctx, businessId)
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	product, err := utils.FetchModel[Product](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateUnique[Product](ctx, businessId, "name", input.Name, id); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Unit = NormalizeUnit(input.Unit)
	product.FiscalCode = input.FiscalCode

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product and every purchase order line that
// references it.
func DeleteProduct(ctx context.Context, id int) error {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Product](ctx, businessId, id); err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ? AND product_id = ?", businessId, id).
		Delete(&PurchaseOrder{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("business_id = ?", businessId).Delete(&Product{}, id).Error
}
