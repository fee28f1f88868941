package schema

import "errors"

// Sentinel errors shared by the core and its callers.
var (
	ErrUnknownRiskBand    = errors.New("unknown risk band")
	ErrInvalidRange       = errors.New("invalid bucket range")
	ErrUnknownGranularity = errors.New("unknown granularity")
	ErrUnknownSortKey     = errors.New("unknown sort key")
)
