package workflow

import (
	"context"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/models"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostInventoryCount locks a draft count, diffs counted quantities against the
// ledger and posts one adjustment move per item with a non-zero variance, then
// stamps the count posted. Posting is terminal: a second attempt fails with
// ErrorAlreadyPosted and leaves the ledger untouched.
//
// Concurrency: the count row is read under SELECT ... FOR UPDATE inside the
// transaction, so concurrent posts of the same count serialize; the loser sees
// posted_at set and fails fast. A redis tenant lock in front keeps contention
// off the database across instances.
func PostInventoryCount(ctx context.Context, countId int, postedByUserId int) (*models.InventoryCount, error) {

	ctx, span := tracer.Start(ctx, "workflow.PostInventoryCount")
	defer span.End()

	logger := config.GetLogger()

	skipCtx := utils.SetSkipTenantScopeInContext(ctx, true)
	db := config.GetDB()

	var count models.InventoryCount
	if err := db.WithContext(skipCtx).First(&count, countId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	if err := models.CheckCallerTenant(ctx, count.TenantId); err != nil {
		return nil, err
	}

	release, err := utils.TenantLock(ctx, count.TenantId, "countPostingLock", "inventoryCountWorkflow.go", "PostInventoryCount")
	if err != nil {
		return nil, err
	}
	defer release()

	err = db.WithContext(skipCtx).Transaction(func(tx *gorm.DB) error {

		if err := AcquireTenantPostingLock(tx, count.TenantId); err != nil {
			config.LogError(logger, "inventoryCountWorkflow.go", "PostInventoryCount", "AcquireTenantPostingLock", count.TenantId, err)
			return err
		}
		defer ReleaseTenantPostingLock(tx, count.TenantId)

		// Re-read under an exclusive row lock; the pre-read above was only a
		// cheap tenant check and may be stale by now.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&count, countId).Error; err != nil {
			return utils.ErrorRecordNotFound
		}
		if count.PostedAt != nil {
			return models.ErrorAlreadyPosted
		}

		var lines []models.InventoryCountLine
		if err := tx.Where("inventory_count_id = ?", count.ID).
			Preload("Item").
			Order("id ASC").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return models.ErrorEmptyCount
		}

		// Aggregate counted quantity per item; duplicate lines for one item
		// sum exactly. itemOrder keeps adjustment moves deterministic.
		counted := make(map[int]decimal.Decimal, len(lines))
		itemOrder := make([]int, 0, len(lines))
		items := make(map[int]*models.Item, len(lines))
		for i := range lines {
			line := &lines[i]
			if line.TenantId != count.TenantId {
				return models.ErrorTenantMismatch
			}
			if line.Item == nil {
				return utils.ErrorRecordNotFound
			}
			if line.Item.TenantId != count.TenantId {
				return models.ErrorTenantMismatch
			}
			if _, ok := counted[line.ItemId]; !ok {
				itemOrder = append(itemOrder, line.ItemId)
				counted[line.ItemId] = decimal.Zero
				items[line.ItemId] = line.Item
			}
			counted[line.ItemId] = counted[line.ItemId].Add(line.CountedQty)
		}

		sourceKind := models.StockMoveSourceKindInventoryCount
		sourceId := count.ID
		for _, itemId := range itemOrder {
			onHand, err := models.OnHandQuantity(tx, itemId)
			if err != nil {
				config.LogError(logger, "inventoryCountWorkflow.go", "PostInventoryCount", "OnHandQuantity", itemId, err)
				return err
			}
			variance := utils.RoundQuantity(counted[itemId].Sub(onHand))
			if variance.IsZero() {
				// No drift for this item; a zero-quantity row would only be
				// ledger noise.
				continue
			}
			move := models.StockMove{
				TenantId:   count.TenantId,
				ItemId:     itemId,
				UomId:      items[itemId].BaseUomId,
				Qty:        variance,
				MoveType:   models.StockMoveTypeInventoryCountAdjustment,
				SourceKind: &sourceKind,
				SourceId:   &sourceId,
			}
			if err := models.PostStockMove(tx, &move); err != nil {
				config.LogError(logger, "inventoryCountWorkflow.go", "PostInventoryCount", "PostStockMove adjustment", move, err)
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(&models.InventoryCount{}).
			Where("id = ?", count.ID).
			Updates(map[string]interface{}{
				"posted_at":         now,
				"posted_by_user_id": postedByUserId,
			}).Error; err != nil {
			config.LogError(logger, "inventoryCountWorkflow.go", "PostInventoryCount", "Update posted_at", count.ID, err)
			return err
		}
		count.PostedAt = &now
		count.PostedByUserId = &postedByUserId

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &count, nil
}
