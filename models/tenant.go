package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/utils"
)

// Tenant is the isolation boundary. Every other row in the schema carries a
// tenant_id referencing one of these.
type Tenant struct {
	ID        uuid.UUID `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index;size:100;not null" json:"name" validate:"required"`
	Email     string    `gorm:"size:255" json:"email"`
	Timezone  string    `gorm:"size:50" json:"timezone"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTenant struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
}

// CreateTenant creates the tenant row plus its bootstrap defaults:
// - a "Count" UoM category with an "Each" unit (base unit for most items)
// - an owner user
// Runs as a system context; the tenant guard has nothing to scope yet.
func CreateTenant(ctx context.Context, input *NewTenant) (*Tenant, error) {

	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	TID := uuid.New()
	timezone := "UTC"
	if input.Timezone != "" {
		timezone = input.Timezone
	}

	tenant := Tenant{
		ID:       TID,
		Name:     input.Name,
		Email:    input.Email,
		Timezone: timezone,
		IsActive: utils.NewTrue(),
	}

	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	tenantId := tenant.ID.String()
	ctx = utils.SetTenantIdInContext(ctx, tenantId)

	if _, _, err := CreateDefaultUoms(tx, ctx, tenantId); err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := CreateDefaultOwner(tx, ctx, tenantId, input.Email, input.Name); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func GetTenant(ctx context.Context, id uuid.UUID) (*Tenant, error) {

	db := config.GetDB()
	var tenant Tenant
	err := db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &tenant, nil
}

// CheckCallerTenant compares the acting context against a row's tenant. A
// system context (no tenant id) may act on any tenant; a tenant-scoped caller
// must match exactly. Posting flows call this instead of trusting the read
// guard, which is fail-open on purpose.
func CheckCallerTenant(ctx context.Context, rowTenantId string) error {
	callerTenantId, ok := utils.GetTenantIdFromContext(ctx)
	if !ok || callerTenantId == "" {
		return nil
	}
	if callerTenantId != rowTenantId {
		return ErrorTenantMismatch
	}
	return nil
}
