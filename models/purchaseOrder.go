package models

import (
	"context"
	"errors"
	"time"

	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/utils"
	"github.com/shopspring/decimal"
)

// PurchaseOrder is one purchased line: a product bought from a supplier for
// a branch on a date. Orders are immutable once written; corrections happen
// by delete and re-import.
type PurchaseOrder struct {
	ID         int             `gorm:"primaryKey" json:"id"`
	BusinessId string          `gorm:"size:100;index" json:"businessId"`
	SupplierId int             `gorm:"index" json:"supplierId"`
	ProductId  int             `gorm:"index" json:"productId"`
	BranchId   int             `gorm:"index" json:"branchId"`
	Qty        decimal.Decimal `gorm:"type:decimal(20,4)" json:"qty"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(20,4)" json:"unitPrice"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4)" json:"total"`
	OrderDate  time.Time       `gorm:"type:date" json:"orderDate"`
	CreatedBy  int             `json:"createdBy"`
	CreatedAt  time.Time
}

type NewPurchaseOrder struct {
	SupplierId int             `json:"supplierId" binding:"required"`
	ProductId  int             `json:"productId" binding:"required"`
	BranchId   int             `json:"branchId" binding:"required"`
	Qty        decimal.Decimal `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Total      decimal.Decimal `json:"total"`
	OrderDate  time.Time       `json:"orderDate"`
}

// CreatePurchaseOrder is the manual entry path. Referenced catalog rows must
// exist; missing amounts are completed the same way the bulk import does.
func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Supplier](ctx, businessId, input.SupplierId); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Product](ctx, businessId, input.ProductId); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Branch](ctx, businessId, input.BranchId); err != nil {
		return nil, err
	}

	qty, unitPrice, total := CompleteAmounts(input.Qty, input.UnitPrice, input.Total)
	orderDate := input.OrderDate
	if orderDate.IsZero() {
		now := time.Now().UTC()
		orderDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	order := PurchaseOrder{
		BusinessId: businessId,
		SupplierId: input.SupplierId,
		ProductId:  input.ProductId,
		BranchId:   input.BranchId,
		Qty:        qty,
		UnitPrice:  unitPrice,
		Total:      total,
		OrderDate:  orderDate,
		CreatedBy:  createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// BulkCreatePurchaseOrders inserts a batch of orders in a single statement.
// All rows land or none do.
func BulkCreatePurchaseOrders(ctx context.Context, orders []*PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	db := config.GetDB()
	return db.WithContext(ctx).Create(&orders).Error
}

// CompleteAmounts fills the missing member of the qty/unitPrice/total
// triple. Qty defaults to 1 when absent or non-positive; a missing total is
// qty times price; a missing price is total over qty. Derivations only run
// from a positive counterpart so a negative cell never propagates into the
// derived value.
func CompleteAmounts(qty, unitPrice, total decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	if !qty.IsPositive() {
		qty = decimal.NewFromInt(1)
	}
	if total.IsZero() && unitPrice.IsPositive() {
		total = qty.Mul(unitPrice)
	} else if unitPrice.IsZero() && total.IsPositive() {
		unitPrice = total.Div(qty)
	}
	return qty, unitPrice, total
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[PurchaseOrder](ctx, businessId, id)
}

func GetPurchaseOrders(ctx context.Context) ([]*PurchaseOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[PurchaseOrder](ctx, businessId)
}

func DeletePurchaseOrder(ctx context.Context, id int) error {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[PurchaseOrder](ctx, businessId, id); err != nil {
		return err
	}

	db := config.GetDB()
	return db.WithContext(ctx).Where("business_id = ?", businessId).Delete(&PurchaseOrder{}, id).Error
}
