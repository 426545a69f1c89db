package models

import (
	"context"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
)

// Item is a stocked good. On-hand quantity is never stored on the row; it is
// always derived from the stock move ledger (see OnHandQuantity).
type Item struct {
	ID             int       `gorm:"primary_key" json:"id"`
	TenantId       string    `gorm:"index;not null" json:"tenant_id"`
	Name           string    `gorm:"index;size:100;not null" json:"name" validate:"required"`
	Sku            string    `gorm:"size:100" json:"sku"`
	BaseUomId      int       `gorm:"index;not null" json:"base_uom_id"`
	IsManufactured *bool     `gorm:"not null;default:false" json:"is_manufactured"`
	IsActive       *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewItem struct {
	Name           string `json:"name" validate:"required"`
	Sku            string `json:"sku"`
	BaseUomId      int    `json:"base_uom_id" validate:"required"`
	IsManufactured *bool  `json:"is_manufactured"`
}

func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Uom](ctx, tenantId, input.BaseUomId); err != nil {
		return nil, ErrorMissingUom
	}
	if err := utils.ValidateUnique[Item](ctx, tenantId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	isManufactured := input.IsManufactured
	if isManufactured == nil {
		isManufactured = utils.NewFalse()
	}

	item := Item{
		TenantId:       tenantId,
		Name:           input.Name,
		Sku:            input.Sku,
		BaseUomId:      input.BaseUomId,
		IsManufactured: isManufactured,
		IsActive:       utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetItem(ctx context.Context, id int) (*Item, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return utils.FetchSingleModel[Item](ctx, id)
	}
	return utils.FetchModel[Item](ctx, tenantId, id)
}

func GetItems(ctx context.Context) ([]*Item, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	return utils.FetchAllModels[Item](ctx, tenantId)
}
