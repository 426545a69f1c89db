package models

import (
	"context"
	"time"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
	"github.com/shopspring/decimal"
)

// InventoryCount is a physical stock-take. Draft while PostedAt is null;
// posting is terminal and the count becomes immutable.
type InventoryCount struct {
	ID             int                  `gorm:"primary_key" json:"id"`
	TenantId       string               `gorm:"index;not null" json:"tenant_id"`
	CountDate      time.Time            `gorm:"not null" json:"count_date"`
	Notes          string               `gorm:"type:text" json:"notes"`
	PostedAt       *time.Time           `gorm:"index" json:"posted_at"`
	PostedByUserId *int                 `json:"posted_by_user_id"`
	Lines          []InventoryCountLine `gorm:"foreignKey:InventoryCountId" json:"lines"`
	CreatedAt      time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

type InventoryCountLine struct {
	ID               int             `gorm:"primary_key" json:"id"`
	InventoryCountId int             `gorm:"index;not null" json:"inventory_count_id"`
	TenantId         string          `gorm:"index;not null" json:"tenant_id"`
	ItemId           int             `gorm:"index;not null" json:"item_id"`
	CountedQty       decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"counted_qty"`
	Item             *Item           `gorm:"foreignKey:ItemId" json:"item"`
}

type NewInventoryCount struct {
	CountDate time.Time               `json:"count_date"`
	Notes     string                  `json:"notes"`
	Lines     []NewInventoryCountLine `json:"lines" validate:"dive"`
}

type NewInventoryCountLine struct {
	ItemId     int    `json:"item_id" validate:"required"`
	CountedQty string `json:"counted_qty" validate:"required"`
}

// CreateInventoryCount stores a draft count. Duplicate lines for the same item
// are allowed; posting aggregates them.
func CreateInventoryCount(ctx context.Context, input *NewInventoryCount) (*InventoryCount, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	countDate := input.CountDate
	if countDate.IsZero() {
		countDate = time.Now()
	}

	lines := make([]InventoryCountLine, 0, len(input.Lines))
	for _, l := range input.Lines {
		qty, err := utils.ParseQuantity(l.CountedQty)
		if err != nil {
			return nil, err
		}
		if err := utils.ValidateResourceId[Item](ctx, tenantId, l.ItemId); err != nil {
			return nil, err
		}
		lines = append(lines, InventoryCountLine{
			TenantId:   tenantId,
			ItemId:     l.ItemId,
			CountedQty: qty,
		})
	}

	count := InventoryCount{
		TenantId:  tenantId,
		CountDate: countDate,
		Notes:     input.Notes,
		Lines:     lines,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&count).Error; err != nil {
		return nil, err
	}
	return &count, nil
}

// AddInventoryCountLine appends a line to a draft count.
func AddInventoryCountLine(ctx context.Context, countId int, input *NewInventoryCountLine) (*InventoryCountLine, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return nil, ErrorTenantMismatch
	}
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	count, err := utils.FetchModel[InventoryCount](ctx, tenantId, countId)
	if err != nil {
		return nil, err
	}
	if count.PostedAt != nil {
		return nil, ErrorAlreadyPosted
	}

	qty, err := utils.ParseQuantity(input.CountedQty)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Item](ctx, tenantId, input.ItemId); err != nil {
		return nil, err
	}

	line := InventoryCountLine{
		InventoryCountId: count.ID,
		TenantId:         tenantId,
		ItemId:           input.ItemId,
		CountedQty:       qty,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func GetInventoryCount(ctx context.Context, id int) (*InventoryCount, error) {

	tenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || tenantId == "" {
		return utils.FetchSingleModel[InventoryCount](ctx, id, "Lines")
	}
	return utils.FetchModel[InventoryCount](ctx, tenantId, id, "Lines")
}
