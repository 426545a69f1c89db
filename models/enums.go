package models

// StockMoveType tags why a ledger row exists. On-hand derivation ignores the
// tag; it only sums signed quantities.
type StockMoveType string

const (
	StockMoveTypeReceipt                  StockMoveType = "receipt"
	StockMoveTypeIssue                    StockMoveType = "issue"
	StockMoveTypeInventoryCountAdjustment StockMoveType = "inventory_count_adjustment"
	StockMoveTypeOpeningStock             StockMoveType = "opening_stock"
)

// StockMoveSourceKind is the tagged half of the {kind, id} provenance pair on a
// StockMove. The ledger records provenance but never joins across it.
type StockMoveSourceKind string

const (
	StockMoveSourceKindRecipe         StockMoveSourceKind = "recipe"
	StockMoveSourceKindInventoryCount StockMoveSourceKind = "inventory_count"
)

type UserRole string

const (
	// UserRoleAdmin is a platform admin; reads bypass the tenant guard.
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)
