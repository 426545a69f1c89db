package models

import (
	"context"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockMove is one signed movement in the append-only ledger. Rows are never
// updated or deleted; on-hand for an item is the signed sum of its rows.
// UomId is always the item's base unit; conversion happens before posting.
//
// SourceKind/SourceId is a tagged {kind, id} provenance pair (recipe or
// inventory count). The ledger records it but never joins across it.
type StockMove struct {
	ID         int                  `gorm:"primary_key" json:"id"`
	TenantId   string               `gorm:"index;not null" json:"tenant_id"`
	ItemId     int                  `gorm:"index;not null" json:"item_id"`
	UomId      int                  `gorm:"not null" json:"uom_id"`
	Qty        decimal.Decimal      `gorm:"type:decimal(20,6);not null" json:"qty"`
	MoveType   StockMoveType        `gorm:"type:enum('receipt','issue','inventory_count_adjustment','opening_stock');not null" json:"move_type"`
	SourceKind *StockMoveSourceKind `gorm:"type:enum('recipe','inventory_count')" json:"source_kind"`
	SourceId   *int                 `gorm:"index" json:"source_id"`
	CreatedAt  time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

// PostStockMove appends one ledger row inside the caller's transaction. The
// quantity is rounded to the ledger scale first. There is deliberately no
// balance check here: negative on-hand is allowed, the ledger is not an
// inventory-control gate.
func PostStockMove(tx *gorm.DB, move *StockMove) error {
	move.Qty = utils.RoundQuantity(move.Qty)
	return tx.Create(move).Error
}

// OnHandQuantity derives an item's balance by summing every signed move at
// read time. No cached balance column exists anywhere; a stored total would be
// a second source of truth that drifts.
func OnHandQuantity(tx *gorm.DB, itemId int) (decimal.Decimal, error) {

	var total decimal.NullDecimal
	err := tx.Model(&StockMove{}).
		Where("item_id = ?", itemId).
		Select("SUM(qty)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// OnHandQuantityForTenant is the context-facing variant used by callers
// outside a posting transaction.
func OnHandQuantityForTenant(ctx context.Context, itemId int) (decimal.Decimal, error) {
	db := config.GetDB()
	return OnHandQuantity(db.WithContext(ctx), itemId)
}

// GetStockMoves lists an item's ledger rows in insertion order.
func GetStockMoves(ctx context.Context, itemId int) ([]*StockMove, error) {

	db := config.GetDB()
	var moves []*StockMove
	err := db.WithContext(ctx).
		Where("item_id = ?", itemId).
		Order("id ASC").
		Find(&moves).Error
	if err != nil {
		return nil, err
	}
	return moves, nil
}

// PostOpeningStock seeds an item's starting balance as a regular ledger row.
// It exists so brand-new tenants don't have to fake a purchase receipt.
func PostOpeningStock(ctx context.Context, itemId int, qty string) (*StockMove, error) {

	quantity, err := utils.ParsePositiveQuantity(qty)
	if err != nil {
		return nil, err
	}

	item, err := fetchItemUnscoped(ctx, itemId)
	if err != nil {
		return nil, err
	}
	if err := CheckCallerTenant(ctx, item.TenantId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	move := StockMove{
		TenantId: item.TenantId,
		ItemId:   item.ID,
		UomId:    item.BaseUomId,
		Qty:      quantity,
		MoveType: StockMoveTypeOpeningStock,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return PostStockMove(tx, &move)
	})
	if err != nil {
		return nil, err
	}
	return &move, nil
}

// fetchItemUnscoped reads an item without the tenant guard so posting flows
// can distinguish TenantMismatch from not-found.
func fetchItemUnscoped(ctx context.Context, itemId int) (*Item, error) {
	skipCtx := utils.SetSkipTenantScopeInContext(ctx, true)
	db := config.GetDB()
	var item Item
	if err := db.WithContext(skipCtx).First(&item, itemId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &item, nil
}
