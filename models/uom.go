package models

import (
	"context"
	"errors"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UomCategory groups comparable units ("Count", "Weight", "Volume"). Units in
// the same category convert through category-wide UomConversion rows; units in
// different categories only convert through an item-specific override.
type UomCategory struct {
	ID        int       `gorm:"primary_key" json:"id"`
	TenantId  string    `gorm:"index;not null" json:"tenant_id"`
	Name      string    `gorm:"size:50;not null" json:"name" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Uom struct {
	ID           int       `gorm:"primary_key" json:"id"`
	TenantId     string    `gorm:"index;not null" json:"tenant_id"`
	CategoryId   int       `gorm:"index;not null" json:"category_id"`
	Name         string    `gorm:"size:50;not null" json:"name" validate:"required"`
	Abbreviation string    `gorm:"size:10;not null" json:"abbreviation" validate:"required"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// UomConversion converts from_uom -> to_uom inside one category. Lookup is
// directional; defining dozen->each does not make each->dozen resolvable.
type UomConversion struct {
	ID         int             `gorm:"primary_key" json:"id"`
	TenantId   string          `gorm:"index;not null" json:"tenant_id"`
	CategoryId int             `gorm:"index;not null" json:"category_id"`
	FromUomId  int             `gorm:"index;not null" json:"from_uom_id"`
	ToUomId    int             `gorm:"index;not null" json:"to_uom_id"`
	Multiplier decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"multiplier"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemUomConversion is an item-specific override for units in different
// categories, e.g. "1 box of item X = 12 each".
type ItemUomConversion struct {
	ID         int             `gorm:"primary_key" json:"id"`
	TenantId   string          `gorm:"index;not null" json:"tenant_id"`
	ItemId     int             `gorm:"index;not null" json:"item_id"`
	FromUomId  int             `gorm:"index;not null" json:"from_uom_id"`
	ToUomId    int             `gorm:"index;not null" json:"to_uom_id"`
	Multiplier decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"multiplier"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUomCategory struct {
	Name string `json:"name" validate:"required"`
}

type NewUom struct {
	CategoryId   int    `json:"category_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
}

type NewUomConversion struct {
	FromUomId  int    `json:"from_uom_id" validate:"required"`
	ToUomId    int    `json:"to_uom_id" validate:"required"`
	Multiplier string `json:"multiplier" validate:"required"`
}

type NewItemUomConversion struct {
	ItemId     int    `json:"item_id" validate:"required"`
	FromUomId  int    `json:"from_uom_id" validate:"required"`
	ToUomId    int    `json:"to_uom_id" validate:"required"`
	Multiplier string `json:"multiplier" validate:"required"`
}

func CreateUomCategory(ctx context.Context, input *NewUomCategory) (*UomCategory, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[UomCategory](ctx, tenantId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	category := UomCategory{
		TenantId: tenantId,
		Name:     input.Name,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func CreateUom(ctx context.Context, input *NewUom) (*Uom, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[UomCategory](ctx, tenantId, input.CategoryId); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Uom](ctx, tenantId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	uom := Uom{
		TenantId:     tenantId,
		CategoryId:   input.CategoryId,
		Name:         input.Name,
		Abbreviation: input.Abbreviation,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&uom).Error; err != nil {
		return nil, err
	}
	return &uom, nil
}

// CreateUomConversion defines a category-wide conversion. Both units must
// belong to the same category; the multiplier must be a decimal > 0.
func CreateUomConversion(ctx context.Context, input *NewUomConversion) (*UomConversion, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	multiplier, err := utils.ParsePositiveQuantity(input.Multiplier)
	if err != nil {
		return nil, err
	}

	fromUom, err := utils.FetchModel[Uom](ctx, tenantId, input.FromUomId)
	if err != nil {
		return nil, ErrorMissingUom
	}
	toUom, err := utils.FetchModel[Uom](ctx, tenantId, input.ToUomId)
	if err != nil {
		return nil, ErrorMissingUom
	}
	if fromUom.CategoryId != toUom.CategoryId {
		return nil, errors.New("units belong to different categories")
	}

	conversion := UomConversion{
		TenantId:   tenantId,
		CategoryId: fromUom.CategoryId,
		FromUomId:  input.FromUomId,
		ToUomId:    input.ToUomId,
		Multiplier: multiplier,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&conversion).Error; err != nil {
		return nil, err
	}
	return &conversion, nil
}

// CreateItemUomConversion defines an item-specific override across categories.
func CreateItemUomConversion(ctx context.Context, input *NewItemUomConversion) (*ItemUomConversion, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	multiplier, err := utils.ParsePositiveQuantity(input.Multiplier)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateResourceId[Item](ctx, tenantId, input.ItemId); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Uom](ctx, tenantId, input.FromUomId); err != nil {
		return nil, ErrorMissingUom
	}
	if err := utils.ValidateResourceId[Uom](ctx, tenantId, input.ToUomId); err != nil {
		return nil, ErrorMissingUom
	}

	conversion := ItemUomConversion{
		TenantId:   tenantId,
		ItemId:     input.ItemId,
		FromUomId:  input.FromUomId,
		ToUomId:    input.ToUomId,
		Multiplier: multiplier,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&conversion).Error; err != nil {
		return nil, err
	}
	return &conversion, nil
}

// ResolveUomMultiplier finds the factor that converts a quantity expressed in
// fromUom into toUom for the given tenant and item.
//
//  1. Same unit: multiplier is 1.
//  2. Same category: category-wide UomConversion row (from -> to), or
//     ErrorMissingConversion.
//  3. Different categories: item-specific ItemUomConversion row scoped to
//     (tenant, item, from, to), or ErrorMissingItemConversion.
//
// No inverse or transitive lookup: conversions must exist in the exact
// direction used, which keeps resolution a single indexed read.
func ResolveUomMultiplier(tx *gorm.DB, tenantId string, itemId int, fromUomId int, toUomId int) (decimal.Decimal, error) {

	if fromUomId == toUomId {
		return decimal.NewFromInt(1), nil
	}

	var fromUom, toUom Uom
	if err := tx.Where("tenant_id = ?", tenantId).First(&fromUom, fromUomId).Error; err != nil {
		return decimal.Zero, ErrorMissingUom
	}
	if err := tx.Where("tenant_id = ?", tenantId).First(&toUom, toUomId).Error; err != nil {
		return decimal.Zero, ErrorMissingUom
	}

	if fromUom.CategoryId == toUom.CategoryId {
		var conversion UomConversion
		err := tx.Where("tenant_id = ? AND from_uom_id = ? AND to_uom_id = ?", tenantId, fromUomId, toUomId).
			First(&conversion).Error
		if err != nil {
			return decimal.Zero, ErrorMissingConversion
		}
		return conversion.Multiplier, nil
	}

	var itemConversion ItemUomConversion
	err := tx.Where("tenant_id = ? AND item_id = ? AND from_uom_id = ? AND to_uom_id = ?", tenantId, itemId, fromUomId, toUomId).
		First(&itemConversion).Error
	if err != nil {
		return decimal.Zero, ErrorMissingItemConversion
	}
	return itemConversion.Multiplier, nil
}
