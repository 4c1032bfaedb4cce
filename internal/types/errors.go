package types

import "errors"

// Sentinel errors for tallyboard operations.
var (
	// ErrDecodeValue indicates a NodeValue wire payload did not match the
	// tagged envelope shape.
	ErrDecodeValue = errors.New("cannot decode node value")

	// ErrDecodeEvaluation indicates an inbound engine evaluation payload
	// did not match the Evaluation shape.
	ErrDecodeEvaluation = errors.New("cannot decode evaluation")

	// ErrDecodeMessage indicates an engine boundary envelope could not be
	// decoded into a known message kind.
	ErrDecodeMessage = errors.New("cannot decode engine message")

	// ErrDecodeCatalog indicates the startup rules or UI index files failed
	// to parse.
	ErrDecodeCatalog = errors.New("cannot decode catalog")

	// ErrUnknownRule indicates a rule name that does not exist in the
	// static catalog loaded at startup.
	ErrUnknownRule = errors.New("unknown rule")

	// ErrInvalidSituation indicates an imported situation file failed to
	// parse as a rule-name to value mapping.
	ErrInvalidSituation = errors.New("invalid situation")
)
