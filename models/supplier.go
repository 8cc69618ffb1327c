package models

import (
	"context"
	"errors"
	"time"

	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/utils"
)

type Supplier struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	BusinessId string `gorm:"size:100;index" json:"businessId"`
	Document   string `gorm:"size:14;index" json:"document"`
	LegalName  string `gorm:"size:255" json:"legalName"`
	TradeName  string `gorm:"size:255" json:"tradeName"`
	Address    string `gorm:"size:255" json:"address"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:2" json:"state"`
	CreatedBy  int    `json:"createdBy"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type NewSupplier struct {
	Document  string `json:"document" binding:"required"`
	LegalName string `json:"legalName" binding:"required"`
	TradeName string `json:"tradeName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// CreateSupplier is the manual registration path: the document is
// canonicalized to digits, checksum-validated and must be unique within the
// business.
func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	document := utils.DigitsOnly(input.Document)
	if err := ValidateDocument(document); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Supplier](ctx, businessId, "document", document, 0); err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	supplier := Supplier{
		BusinessId: businessId,
		Document:   document,
		LegalName:  input.LegalName,
		CreatedBy:  createdBy,
		TradeName:  input.TradeName,
		Address:    input.Address,
		City:       input.City,
		State:      input.State,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// CreateImportedSupplier registers a counterparty discovered during a bulk
// import. The document is stored as an opaque dedup key: no checksum and no
// length constraint beyond the column size, because source spreadsheets
// routinely carry malformed documents that still identify one supplier
// consistently.
func CreateImportedSupplier(ctx context.Context, document string, legalName string) (*Supplier, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	supplier := Supplier{
		BusinessId: businessId,
		Document:   document,
		LegalName:  legalName,
		CreatedBy:  createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Supplier](ctx, businessId, id)
}

func GetSuppliers(ctx context.Context) ([]*Supplier, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Supplier](ctx, businessId)
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	supplier, err := utils.FetchModel[Supplier](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	document := utils.DigitsOnly(input.Document)
	if err := ValidateDocument(document); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Supplier](ctx, businessId, "document", document, id); err != nil {
		return nil, err
	}

	supplier.Document = document
	supplier.LegalName = input.LegalName
	supplier.TradeName = input.TradeName
	supplier.Address = input.Address
	supplier.City = input.City
	supplier.State = input.State

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier removes the supplier and every purchase order that
// references it.
func DeleteSupplier(ctx context.Context, id int) error {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Supplier](ctx, businessId, id); err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ? AND supplier_id = ?", businessId, id).
		Delete(&PurchaseOrder{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("business_id = ?", businessId).Delete(&Supplier{}, id).Error
}
