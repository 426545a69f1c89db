package workflow

import (
	"context"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/models"
	"github.com/opskitchen/stockroom_backend/utils"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("stockroom-backend")

// ExecuteRecipe explodes a recipe into ledger postings: one issue per line,
// scaled by the requested output quantity, then one receipt for the output
// item. Everything happens in a single transaction under the tenant posting
// lock; a failure on any line rolls back the whole run.
//
// Preconditions, checked in order before any write:
//  1. caller tenant (if any) matches the recipe's tenant
//  2. recipe is active
//  3. output item exists and is manufactured
//  4. outputQty parses as a decimal > 0
//
// Returned moves are issues in recipe-line order followed by the receipt.
func ExecuteRecipe(ctx context.Context, recipeId int, outputQty string) ([]*models.StockMove, error) {

	ctx, span := tracer.Start(ctx, "workflow.ExecuteRecipe")
	defer span.End()

	logger := config.GetLogger()

	skipCtx := utils.SetSkipTenantScopeInContext(ctx, true)
	db := config.GetDB()

	var recipe models.Recipe
	if err := db.WithContext(skipCtx).Preload("Lines").First(&recipe, recipeId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := models.CheckCallerTenant(ctx, recipe.TenantId); err != nil {
		return nil, err
	}
	if recipe.IsActive == nil || !*recipe.IsActive {
		return nil, models.ErrorRecipeInactive
	}

	var output models.Item
	if err := db.WithContext(skipCtx).First(&output, recipe.OutputItemId).Error; err != nil {
		return nil, models.ErrorOutputNotManufacturable
	}
	if output.IsManufactured == nil || !*output.IsManufactured {
		return nil, models.ErrorOutputNotManufacturable
	}

	quantity, err := utils.ParsePositiveQuantity(outputQty)
	if err != nil {
		return nil, models.ErrorInvalidQuantity
	}

	moves := make([]*models.StockMove, 0, len(recipe.Lines)+1)
	sourceKind := models.StockMoveSourceKindRecipe
	sourceId := recipe.ID

	err = db.WithContext(skipCtx).Transaction(func(tx *gorm.DB) error {

		if err := AcquireTenantPostingLock(tx, recipe.TenantId); err != nil {
			config.LogError(logger, "recipeWorkflow.go", "ExecuteRecipe", "AcquireTenantPostingLock", recipe.TenantId, err)
			return err
		}
		defer ReleaseTenantPostingLock(tx, recipe.TenantId)

		for _, line := range recipe.Lines {
			var input models.Item
			if err := tx.Where("tenant_id = ?", recipe.TenantId).First(&input, line.InputItemId).Error; err != nil {
				return models.ErrorMissingInputItem
			}

			issueQty := utils.RoundQuantity(line.Qty.Mul(quantity)).Neg()
			move := models.StockMove{
				TenantId:   recipe.TenantId,
				ItemId:     input.ID,
				UomId:      input.BaseUomId,
				Qty:        issueQty,
				MoveType:   models.StockMoveTypeIssue,
				SourceKind: &sourceKind,
				SourceId:   &sourceId,
			}
			if err := models.PostStockMove(tx, &move); err != nil {
				config.LogError(logger, "recipeWorkflow.go", "ExecuteRecipe", "PostStockMove issue", move, err)
				return err
			}
			moves = append(moves, &move)
		}

		receipt := models.StockMove{
			TenantId:   recipe.TenantId,
			ItemId:     output.ID,
			UomId:      output.BaseUomId,
			Qty:        utils.RoundQuantity(quantity),
			MoveType:   models.StockMoveTypeReceipt,
			SourceKind: &sourceKind,
			SourceId:   &sourceId,
		}
		if err := models.PostStockMove(tx, &receipt); err != nil {
			config.LogError(logger, "recipeWorkflow.go", "ExecuteRecipe", "PostStockMove receipt", receipt, err)
			return err
		}
		moves = append(moves, &receipt)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return moves, nil
}
