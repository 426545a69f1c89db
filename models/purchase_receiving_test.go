package models_test

import (
	"errors"
	"testing"

	"github.com/opskitchen/stockroom_backend/models"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/opskitchen/stockroom_backend/workflow"
)

func TestReceivePurchaseOption(t *testing.T) {
	ctx, tenantId := setupStockroomTest(t)

	each := mustUom(t, ctx, tenantId, "Each")
	dozen := mustUom(t, ctx, tenantId, "Dozen")

	eggs := mustCreateItem(t, ctx, &models.NewItem{Name: "Eggs", BaseUomId: each.ID})

	// Bought as "2 dozen per crate"; bootstrap defines dozen -> each x12.
	crate, err := models.CreateItemPurchaseOption(ctx, &models.NewItemPurchaseOption{
		ItemId:       eggs.ID,
		SupplierName: "Acme Foods",
		PackUomId:    dozen.ID,
		PackQty:      "2",
	})
	if err != nil {
		t.Fatalf("CreateItemPurchaseOption: %v", err)
	}

	move, err := workflow.ReceivePurchaseOption(ctx, crate.ID, "1")
	if err != nil {
		t.Fatalf("ReceivePurchaseOption: %v", err)
	}
	if move.MoveType != models.StockMoveTypeReceipt {
		t.Fatalf("expected receipt, got %s", move.MoveType)
	}
	if move.UomId != each.ID {
		t.Fatalf("receipt must be in the item's base unit")
	}
	if got := utils.FormatQuantity(move.Qty); got != "24.000000" {
		t.Fatalf("expected 24.000000 (2 dozen x 12), got %s", got)
	}
	if move.SourceKind != nil || move.SourceId != nil {
		t.Fatalf("receiving must not attach a source reference")
	}

	onHand, err := models.OnHandQuantityForTenant(ctx, eggs.ID)
	if err != nil {
		t.Fatalf("OnHandQuantityForTenant: %v", err)
	}
	if got := utils.FormatQuantity(onHand); got != "24.000000" {
		t.Fatalf("expected on-hand 24.000000, got %s", got)
	}

	t.Run("pack unit equal to base unit needs no conversion row", func(t *testing.T) {
		single, err := models.CreateItemPurchaseOption(ctx, &models.NewItemPurchaseOption{
			ItemId:       eggs.ID,
			SupplierName: "Acme Foods",
			PackUomId:    each.ID,
			PackQty:      "5",
		})
		if err != nil {
			t.Fatalf("CreateItemPurchaseOption: %v", err)
		}
		move, err := workflow.ReceivePurchaseOption(ctx, single.ID, "2")
		if err != nil {
			t.Fatalf("ReceivePurchaseOption: %v", err)
		}
		if got := utils.FormatQuantity(move.Qty); got != "10.000000" {
			t.Fatalf("expected 10.000000, got %s", got)
		}
	})

	t.Run("invalid pack count", func(t *testing.T) {
		for _, packs := range []string{"0", "-2", "x"} {
			if _, err := workflow.ReceivePurchaseOption(ctx, crate.ID, packs); !errors.Is(err, models.ErrorInvalidPackCount) {
				t.Fatalf("packs %q: expected ErrorInvalidPackCount, got %v", packs, err)
			}
		}
	})

	t.Run("unknown option", func(t *testing.T) {
		if _, err := workflow.ReceivePurchaseOption(ctx, 999999, "1"); !errors.Is(err, utils.ErrorRecordNotFound) {
			t.Fatalf("expected ErrorRecordNotFound, got %v", err)
		}
	})

	t.Run("cross category pack without item override", func(t *testing.T) {
		weight, err := models.CreateUomCategory(ctx, &models.NewUomCategory{Name: "Weight"})
		if err != nil {
			t.Fatalf("CreateUomCategory: %v", err)
		}
		kilogram, err := models.CreateUom(ctx, &models.NewUom{CategoryId: weight.ID, Name: "Kilogram", Abbreviation: "kg"})
		if err != nil {
			t.Fatalf("CreateUom: %v", err)
		}
		bag, err := models.CreateItemPurchaseOption(ctx, &models.NewItemPurchaseOption{
			ItemId:    eggs.ID,
			PackUomId: kilogram.ID,
			PackQty:   "25",
		})
		if err != nil {
			t.Fatalf("CreateItemPurchaseOption: %v", err)
		}

		if _, err := workflow.ReceivePurchaseOption(ctx, bag.ID, "1"); !errors.Is(err, models.ErrorMissingItemConversion) {
			t.Fatalf("expected ErrorMissingItemConversion, got %v", err)
		}

		// The item override makes the same option receivable.
		if _, err := models.CreateItemUomConversion(ctx, &models.NewItemUomConversion{
			ItemId:     eggs.ID,
			FromUomId:  kilogram.ID,
			ToUomId:    each.ID,
			Multiplier: "16",
		}); err != nil {
			t.Fatalf("CreateItemUomConversion: %v", err)
		}
		move, err := workflow.ReceivePurchaseOption(ctx, bag.ID, "1")
		if err != nil {
			t.Fatalf("ReceivePurchaseOption: %v", err)
		}
		if got := utils.FormatQuantity(move.Qty); got != "400.000000" {
			t.Fatalf("expected 400.000000 (25 kg x 16), got %s", got)
		}
	})

	t.Run("cross tenant caller is rejected", func(t *testing.T) {
		otherCtx := utils.SetTenantIdInContext(ctx, "00000000-0000-0000-0000-000000000000")
		if _, err := workflow.ReceivePurchaseOption(otherCtx, crate.ID, "1"); !errors.Is(err, models.ErrorTenantMismatch) {
			t.Fatalf("expected ErrorTenantMismatch, got %v", err)
		}
	})
}
