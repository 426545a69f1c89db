package models

import (
	"context"

	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateDefaultUoms seeds the bootstrap UoM category and base unit for a fresh
// tenant: category "Count" with unit "Each". Items default to counting in each.
func CreateDefaultUoms(tx *gorm.DB, ctx context.Context, tenantId string) (*UomCategory, *Uom, error) {

	category := UomCategory{
		TenantId: tenantId,
		Name:     "Count",
	}
	if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	each := Uom{
		TenantId:     tenantId,
		CategoryId:   category.ID,
		Name:         "Each",
		Abbreviation: "ea",
	}
	if err := tx.WithContext(ctx).Create(&each).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	// A dozen is the one pack size nearly every tenant asks for on day one.
	dozen := Uom{
		TenantId:     tenantId,
		CategoryId:   category.ID,
		Name:         "Dozen",
		Abbreviation: "dz",
	}
	if err := tx.WithContext(ctx).Create(&dozen).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	conversion := UomConversion{
		TenantId:   tenantId,
		CategoryId: category.ID,
		FromUomId:  dozen.ID,
		ToUomId:    each.ID,
		Multiplier: decimal.NewFromInt(12),
	}
	if err := tx.WithContext(ctx).Create(&conversion).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	return &category, &each, nil
}

// CreateDefaultOwner creates the tenant's first user.
func CreateDefaultOwner(tx *gorm.DB, ctx context.Context, tenantId string, email string, name string) (*User, error) {

	hashedPassword, err := utils.HashPassword("default123")
	if err != nil {
		return nil, err
	}

	username := email
	if username == "" {
		username = name
	}

	owner := User{
		TenantId: tenantId,
		Username: username,
		Name:     name,
		Password: string(hashedPassword),
		Role:     UserRoleStaff,
		IsActive: utils.NewTrue(),
	}
	if err := tx.WithContext(ctx).Create(&owner).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return &owner, nil
}
