package models_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/models"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/opskitchen/stockroom_backend/workflow"
)

func TestPostInventoryCount(t *testing.T) {
	ctx, tenantId := setupStockroomTest(t)

	each := mustUom(t, ctx, tenantId, "Each")
	flour := mustCreateItem(t, ctx, &models.NewItem{Name: "Flour", BaseUomId: each.ID})
	sugar := mustCreateItem(t, ctx, &models.NewItem{Name: "Sugar", BaseUomId: each.ID})

	if _, err := models.PostOpeningStock(ctx, flour.ID, "10"); err != nil {
		t.Fatalf("PostOpeningStock flour: %v", err)
	}
	if _, err := models.PostOpeningStock(ctx, sugar.ID, "5"); err != nil {
		t.Fatalf("PostOpeningStock sugar: %v", err)
	}

	// Duplicate flour lines sum to 7.5; sugar matches on-hand exactly.
	count, err := models.CreateInventoryCount(ctx, &models.NewInventoryCount{
		Notes: "weekly stock take",
		Lines: []models.NewInventoryCountLine{
			{ItemId: flour.ID, CountedQty: "3"},
			{ItemId: flour.ID, CountedQty: "4.5"},
			{ItemId: sugar.ID, CountedQty: "5"},
		},
	})
	if err != nil {
		t.Fatalf("CreateInventoryCount: %v", err)
	}

	posted, err := workflow.PostInventoryCount(ctx, count.ID, 1)
	if err != nil {
		t.Fatalf("PostInventoryCount: %v", err)
	}
	if posted.PostedAt == nil {
		t.Fatalf("expected posted_at to be stamped")
	}
	if posted.PostedByUserId == nil || *posted.PostedByUserId != 1 {
		t.Fatalf("expected posted_by_user_id 1")
	}

	// Flour drifted by 7.5 - 10 = -2.5; one signed adjustment move.
	flourMoves, err := models.GetStockMoves(ctx, flour.ID)
	if err != nil {
		t.Fatalf("GetStockMoves flour: %v", err)
	}
	if len(flourMoves) != 2 {
		t.Fatalf("expected opening + adjustment for flour, got %d moves", len(flourMoves))
	}
	adj := flourMoves[1]
	if adj.MoveType != models.StockMoveTypeInventoryCountAdjustment {
		t.Fatalf("expected adjustment move, got %s", adj.MoveType)
	}
	if got := utils.FormatQuantity(adj.Qty); got != "-2.500000" {
		t.Fatalf("expected adjustment -2.500000, got %s", got)
	}
	if adj.SourceKind == nil || *adj.SourceKind != models.StockMoveSourceKindInventoryCount {
		t.Fatalf("expected inventory_count source kind")
	}
	if adj.SourceId == nil || *adj.SourceId != count.ID {
		t.Fatalf("expected source id %d", count.ID)
	}

	onHand, err := models.OnHandQuantityForTenant(ctx, flour.ID)
	if err != nil {
		t.Fatalf("OnHandQuantityForTenant: %v", err)
	}
	if got := utils.FormatQuantity(onHand); got != "7.500000" {
		t.Fatalf("expected flour on-hand 7.500000, got %s", got)
	}

	// Zero variance posts nothing for sugar.
	sugarMoves, err := models.GetStockMoves(ctx, sugar.ID)
	if err != nil {
		t.Fatalf("GetStockMoves sugar: %v", err)
	}
	if len(sugarMoves) != 1 {
		t.Fatalf("expected only the opening move for sugar, got %d moves", len(sugarMoves))
	}

	t.Run("reposting is rejected and the ledger is untouched", func(t *testing.T) {
		var before int64
		if err := config.GetDB().Model(&models.StockMove{}).Count(&before).Error; err != nil {
			t.Fatalf("count moves: %v", err)
		}
		if _, err := workflow.PostInventoryCount(ctx, count.ID, 1); !errors.Is(err, models.ErrorAlreadyPosted) {
			t.Fatalf("expected ErrorAlreadyPosted, got %v", err)
		}
		var after int64
		if err := config.GetDB().Model(&models.StockMove{}).Count(&after).Error; err != nil {
			t.Fatalf("count moves: %v", err)
		}
		if after != before {
			t.Fatalf("ledger changed on rejected repost: %d -> %d rows", before, after)
		}
	})

	t.Run("empty count cannot post", func(t *testing.T) {
		empty, err := models.CreateInventoryCount(ctx, &models.NewInventoryCount{Notes: "nothing counted"})
		if err != nil {
			t.Fatalf("CreateInventoryCount: %v", err)
		}
		if _, err := workflow.PostInventoryCount(ctx, empty.ID, 1); !errors.Is(err, models.ErrorEmptyCount) {
			t.Fatalf("expected ErrorEmptyCount, got %v", err)
		}
		reread, err := models.GetInventoryCount(ctx, empty.ID)
		if err != nil {
			t.Fatalf("GetInventoryCount: %v", err)
		}
		if reread.PostedAt != nil {
			t.Fatalf("failed post must leave posted_at null")
		}
	})

	t.Run("cross tenant caller is rejected", func(t *testing.T) {
		draft, err := models.CreateInventoryCount(ctx, &models.NewInventoryCount{
			Lines: []models.NewInventoryCountLine{{ItemId: flour.ID, CountedQty: "7.5"}},
		})
		if err != nil {
			t.Fatalf("CreateInventoryCount: %v", err)
		}
		otherCtx := utils.SetTenantIdInContext(ctx, "00000000-0000-0000-0000-000000000000")
		if _, err := workflow.PostInventoryCount(otherCtx, draft.ID, 1); !errors.Is(err, models.ErrorTenantMismatch) {
			t.Fatalf("expected ErrorTenantMismatch, got %v", err)
		}
	})
}

func TestPostInventoryCount_ConcurrentPostsHaveOneWinner(t *testing.T) {
	ctx, tenantId := setupStockroomTest(t)

	each := mustUom(t, ctx, tenantId, "Each")
	flour := mustCreateItem(t, ctx, &models.NewItem{Name: "Flour", BaseUomId: each.ID})
	if _, err := models.PostOpeningStock(ctx, flour.ID, "10"); err != nil {
		t.Fatalf("PostOpeningStock: %v", err)
	}

	count, err := models.CreateInventoryCount(ctx, &models.NewInventoryCount{
		Lines: []models.NewInventoryCountLine{{ItemId: flour.ID, CountedQty: "8"}},
	})
	if err != nil {
		t.Fatalf("CreateInventoryCount: %v", err)
	}

	const posters = 4
	errs := make([]error, posters)
	var wg sync.WaitGroup
	for i := 0; i < posters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = workflow.PostInventoryCount(ctx, count.ID, 1)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			continue
		}
		// The tenant lock makes losers wait, so they all reach the posted_at
		// re-check and fail on that.
		if !errors.Is(err, models.ErrorAlreadyPosted) {
			t.Fatalf("poster %d: expected ErrorAlreadyPosted, got %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	// Exactly one adjustment row regardless of how many posters raced.
	var adjustments int64
	err = config.GetDB().Model(&models.StockMove{}).
		Where("item_id = ? AND move_type = ?", flour.ID, models.StockMoveTypeInventoryCountAdjustment).
		Count(&adjustments).Error
	if err != nil {
		t.Fatalf("count adjustments: %v", err)
	}
	if adjustments != 1 {
		t.Fatalf("expected exactly 1 adjustment move, got %d", adjustments)
	}

	onHand, err := models.OnHandQuantityForTenant(ctx, flour.ID)
	if err != nil {
		t.Fatalf("OnHandQuantityForTenant: %v", err)
	}
	if got := utils.FormatQuantity(onHand); got != "8.000000" {
		t.Fatalf("expected on-hand 8.000000, got %s", got)
	}
}
