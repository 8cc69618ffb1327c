package models

import (
	"context"
	"errors"
	"time"

	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/utils"
)

type Branch struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	BusinessId string `gorm:"size:100;index" json:"businessId"`
	Name       string `gorm:"size:255" json:"name"`
	Document   string `gorm:"size:14" json:"document"`
	Address    string `gorm:"size:255" json:"address"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:2" json:"state"`
	CreatedBy  int    `json:"createdBy"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type NewBranch struct {
	Name     string `json:"name" binding:"required"`
	Document string `json:"document"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	document := utils.DigitsOnly(input.Document)
	if document != "" {
		if err := ValidateDocument(document); err != nil {
			return nil, err
		}
	}
	if err := utils.ValidateUnique[Branch](ctx, businessId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	branch := Branch{
		BusinessId: businessId,
		Name:       input.Name,
		CreatedBy:  createdBy,
		Document:   document,
		Address:    input.Address,
		City:       input.City,
		State:      input.State,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func GetBranch(ctx context.Context, id int) (*Branch, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Branch](ctx, businessId, id)
}

func GetBranches(ctx context.Context) ([]*Branch, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Branch](ctx, businessId)
}

func UpdateBranch(ctx context.Context, id int, input *NewBranch) (*Branch, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	branch, err := utils.FetchModel[Branch](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	document := utils.DigitsOnly(input.Document)
	if document != "" {
		if err := ValidateDocument(document); err != nil {
			return nil, err
		}
	}
	if err := utils.ValidateUnique[Branch](ctx, businessId, "name", input.Name, id); err != nil {
		return nil, err
	}

	branch.Name = input.Name
	branch.Document = document
	branch.Address = input.Address
	branch.City = input.City
	branch.State = input.State

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(branch).Error; err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch removes the branch and every purchase order booked under it.
func DeleteBranch(ctx context.Context, id int) error {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}

	if err := utils.ValidateResourceId[Branch](ctx, businessId, id); err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("business_id = ? AND branch_id = ?", businessId, id).
		Delete(&PurchaseOrder{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Where("business_id = ?", businessId).Delete(&Branch{}, id).Error
}
