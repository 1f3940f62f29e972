// Package errors provides structured error handling for dice evaluation.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Notation errors
	CodeNotationSyntax Code = "NOTATION_SYNTAX"

	// Dice errors
	CodeDiceInvalidParameter Code = "DICE_INVALID_PARAMETER"
	CodeDiceEmptyPool        Code = "DICE_EMPTY_POOL"

	// Random/seed errors
	CodeSeedUnavailable Code = "SEED_UNAVAILABLE"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - the notation or its dice cannot be evaluated
	case CodeNotationSyntax,
		CodeDiceInvalidParameter,
		CodeDiceEmptyPool:
		return codes.InvalidArgument

	// Unavailable - no entropy source
	case CodeSeedUnavailable:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
