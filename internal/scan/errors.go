package scan

import (
	"errors"
	"fmt"
)

// Sentinel errors for scan outcomes.
var (
	// ErrConfig covers invalid input or a runner missing a required
	// dependency; nothing was attempted.
	ErrConfig = errors.New("scan: invalid configuration")
	// ErrNoResults means not a single provider response was collected.
	// Partial provider failure is never an error; this is total failure.
	ErrNoResults = errors.New("scan: no results")
	// ErrAllProvidersFailed is ErrNoResults where every attempted call
	// returned an error, as opposed to the scan being cancelled before
	// anything completed.
	ErrAllProvidersFailed = fmt.Errorf("all provider calls failed: %w", ErrNoResults)
)
