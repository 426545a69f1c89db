package models

import (
	"context"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
)

// Recipe is a bill of materials: input quantities per one unit of the output
// item. Recipes are edited by manufacturing setup and read-only to execution.
type Recipe struct {
	ID           int          `gorm:"primary_key" json:"id"`
	TenantId     string       `gorm:"index;not null" json:"tenant_id"`
	OutputItemId int          `gorm:"index;not null" json:"output_item_id"`
	Name         string       `gorm:"size:100;not null" json:"name" validate:"required"`
	IsActive     *bool        `gorm:"not null;default:true" json:"is_active"`
	Lines        []RecipeLine `gorm:"foreignKey:RecipeId" json:"lines"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type RecipeLine struct {
	ID          int             `gorm:"primary_key" json:"id"`
	RecipeId    int             `gorm:"index;not null" json:"recipe_id"`
	InputItemId int             `gorm:"index;not null" json:"input_item_id"`
	Qty         decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"qty"`
}

type NewRecipe struct {
	OutputItemId int             `json:"output_item_id" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Lines        []NewRecipeLine `json:"lines" validate:"required,min=1,dive"`
}

type NewRecipeLine struct {
	InputItemId int    `json:"input_item_id" validate:"required"`
	Qty         string `json:"qty" validate:"required"`
}

func CreateRecipe(ctx context.Context, input *NewRecipe) (*Recipe, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	output, err := utils.FetchModel[Item](ctx, tenantId, input.OutputItemId)
	if err != nil {
		return nil, err
	}
	if output.IsManufactured == nil || !*output.IsManufactured {
		return nil, ErrorOutputNotManufacturable
	}

	lines := make([]RecipeLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		qty, err := utils.ParsePositiveQuantity(l.Qty)
		if err != nil {
			return nil, err
		}
		if err := utils.ValidateResourceId[Item](ctx, tenantId, l.InputItemId); err != nil {
			return nil, ErrorMissingInputItem
		}
		lines = append(lines, RecipeLine{
			InputItemId: l.InputItemId,
			Qty:         qty,
		})
	}

	recipe := Recipe{
		TenantId:     tenantId,
		OutputItemId: input.OutputItemId,
		Name:         input.Name,
		IsActive:     utils.NewTrue(),
		Lines:        lines,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func GetRecipe(ctx context.Context, id int) (*Recipe, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return utils.FetchSingleModel[Recipe](ctx, id, "Lines")
	}
	return utils.FetchModel[Recipe](ctx, tenantId, id, "Lines")
}

// ToggleActiveRecipe flips the active flag; inactive recipes refuse execution.
func ToggleActiveRecipe(ctx context.Context, id int, isActive bool) (*Recipe, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	recipe, err := utils.FetchModel[Recipe](ctx, tenantId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(recipe).Update("is_active", isActive).Error
	if err != nil {
		return nil, err
	}
	return recipe, nil
}
