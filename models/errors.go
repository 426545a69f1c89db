package models

import (
	"errors"

	"github.com/opskitchen/stockroom_backend/utils"
)

// Domain failure sentinels. Every posting precondition surfaces one of these so
// callers can branch with errors.Is instead of string matching.
var (
	// authorization / tenancy
	ErrorTenantMismatch = errors.New("tenant mismatch")

	// state violations
	ErrorAlreadyPosted           = errors.New("inventory count already posted")
	ErrorRecipeInactive          = errors.New("recipe is inactive")
	ErrorOutputNotManufacturable = errors.New("output item is not manufacturable")
	ErrorEmptyCount              = errors.New("inventory count has no lines")

	// input validation
	ErrorInvalidQuantity     = utils.ErrorInvalidQuantity
	ErrorInvalidPackCount    = errors.New("invalid pack count")
	ErrorInvalidPackQuantity = errors.New("invalid pack quantity")
	ErrorMissingInputItem    = errors.New("recipe input item not found")
	ErrorMissingUom          = errors.New("unit of measure not found")

	// configuration gaps
	ErrorMissingConversion     = errors.New("no unit conversion defined")
	ErrorMissingItemConversion = errors.New("no item unit conversion defined")
)
