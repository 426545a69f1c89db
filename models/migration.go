package models

import (
	"log"

	"github.com/opskitchen/stockroom_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Tenant{}, &User{},
		&UomCategory{}, &Uom{}, &UomConversion{}, &ItemUomConversion{},
		&Item{}, &ItemPurchaseOption{},
		&Recipe{}, &RecipeLine{},
		&StockMove{},
		&InventoryCount{}, &InventoryCountLine{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
