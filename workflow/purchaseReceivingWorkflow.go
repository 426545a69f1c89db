package workflow

import (
	"context"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/models"
	"github.com/opskitchen/stockroom_backend/utils"
	"gorm.io/gorm"
)

// ReceivePurchaseOption converts a received pack count into the item's base
// unit and posts one receipt move. The conversion runs through the UoM
// resolver: identity, then category-wide row, then item-specific override.
// The receipt carries no source reference.
func ReceivePurchaseOption(ctx context.Context, optionId int, packCount string) (*models.StockMove, error) {

	ctx, span := tracer.Start(ctx, "workflow.ReceivePurchaseOption")
	defer span.End()

	logger := config.GetLogger()

	packs, err := utils.ParsePositiveQuantity(packCount)
	if err != nil {
		return nil, models.ErrorInvalidPackCount
	}

	skipCtx := utils.SetSkipTenantScopeInContext(ctx, true)
	db := config.GetDB()

	var option models.ItemPurchaseOption
	if err := db.WithContext(skipCtx).First(&option, optionId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := models.CheckCallerTenant(ctx, option.TenantId); err != nil {
		return nil, err
	}

	var item models.Item
	if err := db.WithContext(skipCtx).First(&item, option.ItemId).Error; err != nil {
		return nil, models.ErrorTenantMismatch
	}
	if option.TenantId != item.TenantId {
		return nil, models.ErrorTenantMismatch
	}

	if !option.PackQty.IsPositive() {
		return nil, models.ErrorInvalidPackQuantity
	}

	totalPackQty := utils.RoundQuantity(option.PackQty.Mul(packs))

	var move models.StockMove
	err = db.WithContext(skipCtx).Transaction(func(tx *gorm.DB) error {

		if err := AcquireTenantPostingLock(tx, option.TenantId); err != nil {
			config.LogError(logger, "purchaseReceivingWorkflow.go", "ReceivePurchaseOption", "AcquireTenantPostingLock", option.TenantId, err)
			return err
		}
		defer ReleaseTenantPostingLock(tx, option.TenantId)

		multiplier, err := models.ResolveUomMultiplier(tx, option.TenantId, item.ID, option.PackUomId, item.BaseUomId)
		if err != nil {
			return err
		}

		move = models.StockMove{
			TenantId: option.TenantId,
			ItemId:   item.ID,
			UomId:    item.BaseUomId,
			Qty:      utils.RoundQuantity(totalPackQty.Mul(multiplier)),
			MoveType: models.StockMoveTypeReceipt,
		}
		if err := models.PostStockMove(tx, &move); err != nil {
			config.LogError(logger, "purchaseReceivingWorkflow.go", "ReceivePurchaseOption", "PostStockMove receipt", move, err)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &move, nil
}
