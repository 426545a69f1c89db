// seed-demo provisions a demo tenant with units, conversions, items, a recipe
// and a purchase option, then seeds opening stock. Meant for local development
// against an empty database.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/opskitchen/stockroom_backend/config"
	"github.com/opskitchen/stockroom_backend/models"
	"github.com/opskitchen/stockroom_backend/utils"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	tenant, err := models.CreateTenant(ctx, &models.NewTenant{
		Name:  "Demo Kitchen",
		Email: "owner@demo.local",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create tenant: %v\n", err)
		os.Exit(1)
	}
	tenantId := tenant.ID.String()
	ctx = utils.SetTenantIdInContext(ctx, tenantId)
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Seed")

	// Weight category with a gram base and a kilogram pack conversion.
	weight, err := models.CreateUomCategory(ctx, &models.NewUomCategory{Name: "Weight"})
	if err != nil {
		fail("create weight category", err)
	}
	gram, err := models.CreateUom(ctx, &models.NewUom{CategoryId: weight.ID, Name: "Gram", Abbreviation: "g"})
	if err != nil {
		fail("create gram", err)
	}
	kilogram, err := models.CreateUom(ctx, &models.NewUom{CategoryId: weight.ID, Name: "Kilogram", Abbreviation: "kg"})
	if err != nil {
		fail("create kilogram", err)
	}
	if _, err := models.CreateUomConversion(ctx, &models.NewUomConversion{
		FromUomId:  kilogram.ID,
		ToUomId:    gram.ID,
		Multiplier: "1000",
	}); err != nil {
		fail("create kg->g conversion", err)
	}

	flour, err := models.CreateItem(ctx, &models.NewItem{Name: "Flour", Sku: "FLOUR-001", BaseUomId: gram.ID})
	if err != nil {
		fail("create flour", err)
	}
	sugar, err := models.CreateItem(ctx, &models.NewItem{Name: "Sugar", Sku: "SUGAR-001", BaseUomId: gram.ID})
	if err != nil {
		fail("create sugar", err)
	}
	cookie, err := models.CreateItem(ctx, &models.NewItem{
		Name:           "Cookie Box",
		Sku:            "COOKIE-001",
		BaseUomId:      gram.ID,
		IsManufactured: utils.NewTrue(),
	})
	if err != nil {
		fail("create cookie box", err)
	}

	if _, err := models.CreateRecipe(ctx, &models.NewRecipe{
		OutputItemId: cookie.ID,
		Name:         "Cookie Box 500g",
		Lines: []models.NewRecipeLine{
			{InputItemId: flour.ID, Qty: "300"},
			{InputItemId: sugar.ID, Qty: "150"},
		},
	}); err != nil {
		fail("create recipe", err)
	}

	if _, err := models.CreateItemPurchaseOption(ctx, &models.NewItemPurchaseOption{
		ItemId:       flour.ID,
		SupplierName: "Mill & Co",
		PackUomId:    kilogram.ID,
		PackQty:      "25",
	}); err != nil {
		fail("create purchase option", err)
	}

	if _, err := models.PostOpeningStock(ctx, flour.ID, "10000"); err != nil {
		fail("post flour opening stock", err)
	}
	if _, err := models.PostOpeningStock(ctx, sugar.ID, "5000"); err != nil {
		fail("post sugar opening stock", err)
	}

	fmt.Printf("seeded tenant %s (%s)\n", tenant.Name, tenantId)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "failed to %s: %v\n", step, err)
	os.Exit(1)
}
