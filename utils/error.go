package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorInvalidQuantity is returned for any quantity input that does not parse
// as a decimal string. Domain-level aliases live in the models package.
var ErrorInvalidQuantity = errors.New("invalid quantity")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
