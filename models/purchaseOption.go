package models

import (
	"context"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
)

// ItemPurchaseOption describes how an item is bought: a pack unit and how many
// of that pack unit one pack contains. Receiving converts packs into the
// item's base unit through the UoM resolver.
type ItemPurchaseOption struct {
	ID           int             `gorm:"primary_key" json:"id"`
	TenantId     string          `gorm:"index;not null" json:"tenant_id"`
	ItemId       int             `gorm:"index;not null" json:"item_id"`
	SupplierName string          `gorm:"size:100" json:"supplier_name"`
	PackUomId    int             `gorm:"not null" json:"pack_uom_id"`
	PackQty      decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"pack_qty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewItemPurchaseOption struct {
	ItemId       int    `json:"item_id" validate:"required"`
	SupplierName string `json:"supplier_name"`
	PackUomId    int    `json:"pack_uom_id" validate:"required"`
	PackQty      string `json:"pack_qty" validate:"required"`
}

func CreateItemPurchaseOption(ctx context.Context, input *NewItemPurchaseOption) (*ItemPurchaseOption, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	packQty, err := utils.ParsePositiveQuantity(input.PackQty)
	if err != nil {
		return nil, ErrorInvalidPackQuantity
	}

	if err := utils.ValidateResourceId[Item](ctx, tenantId, input.ItemId); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Uom](ctx, tenantId, input.PackUomId); err != nil {
		return nil, ErrorMissingUom
	}

	option := ItemPurchaseOption{
		TenantId:     tenantId,
		ItemId:       input.ItemId,
		SupplierName: input.SupplierName,
		PackUomId:    input.PackUomId,
		PackQty:      packQty,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func GetItemPurchaseOption(ctx context.Context, id int) (*ItemPurchaseOption, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return utils.FetchSingleModel[ItemPurchaseOption](ctx, id)
	}
	return utils.FetchModel[ItemPurchaseOption](ctx, tenantId, id)
}
