// onhand-report prints the ledger-derived on-hand quantity for every item of a
// tenant. Handy when reconciling a physical count before drafting it.
//
// Usage:
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//     go run ./cmd/onhand-report <tenant-id>
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
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: onhand-report <tenant-id>")
		os.Exit(2)
	}
	tenantId := os.Args[1]

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	ctx = utils.SetTenantIdInContext(ctx, tenantId)

	items, err := models.GetItems(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list items: %v\n", err)
		os.Exit(1)
	}

	for _, item := range items {
		onHand, err := models.OnHandQuantityForTenant(ctx, item.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to derive on-hand for item %d: %v\n", item.ID, err)
			os.Exit(1)
		}
		fmt.Printf("%-30s %s\n", item.Name, utils.FormatQuantity(onHand))
	}
}
