package pointctl

import (
	"errors"
	"fmt"

	"github.com/gijs-s/pointctl/executor"
	"github.com/gijs-s/pointctl/fs"
	"github.com/gijs-s/pointctl/index"
	"github.com/gijs-s/pointctl/pointset"
)

// ErrInvalidConfig wraps all configuration-surface validation failures.
var ErrInvalidConfig = errors.New("pointctl: invalid configuration")

// ErrPointCountMismatch indicates the original and reduced sets disagree on
// the number of points.
type ErrPointCountMismatch struct {
	Original int
	Reduced  int
}

func (e *ErrPointCountMismatch) Error() string {
	return fmt.Sprintf("pointctl: point count mismatch: original has %d points, reduced has %d", e.Original, e.Reduced)
}

// ErrUnsupportedDim indicates a reduced-space dimensionality outside {2,3}.
type ErrUnsupportedDim struct {
	Dim int
}

func (e *ErrUnsupportedDim) Error() string {
	return fmt.Sprintf("pointctl: unsupported reduced dimensionality %d (want 2 or 3)", e.Dim)
}

// ErrInvalidState indicates an internal invariant violation: a logic defect,
// never a recoverable condition, and never silently clamped.
type ErrInvalidState struct {
	Reason string
}

func (e *ErrInvalidState) Error() string {
	return "pointctl: invalid state: " + e.Reason
}

// Exit codes surfaced by the CLI. Stable; scripts depend on them.
const (
	ExitFailure        = 1  // unclassified
	ExitIO             = 10 // file cannot be read or written
	ExitMalformedData  = 11 // non-numeric or non-finite value in input
	ExitEmptyInput     = 12 // empty file or empty dataset
	ExitRaggedRow      = 13 // inconsistent row length
	ExitInvalidConfig  = 14 // unparsable or out-of-range configuration value
	ExitUnsupportedDim = 15 // reduced dimensionality outside {2,3}
	ExitPoolFailure    = 16 // worker pool could not be constructed
	ExitInvalidState   = 17 // internal invariant violation
	ExitCountMismatch  = 18 // original/reduced point counts differ
)

// ExitCode maps an error from the engine or the fs layer to its stable CLI
// exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var dim *ErrUnsupportedDim
	if errors.As(err, &dim) {
		return ExitUnsupportedDim
	}
	var mismatch *ErrPointCountMismatch
	if errors.As(err, &mismatch) {
		return ExitCountMismatch
	}
	var state *ErrInvalidState
	if errors.As(err, &state) {
		return ExitInvalidState
	}
	if errors.Is(err, ErrInvalidConfig) {
		return ExitInvalidConfig
	}
	if errors.Is(err, executor.ErrInvalidWorkerCount) {
		return ExitPoolFailure
	}
	if errors.Is(err, pointset.ErrEmpty) || errors.Is(err, index.ErrEmptyDataset) || errors.Is(err, fs.ErrEmptyFile) {
		return ExitEmptyInput
	}

	var malformed *fs.ErrMalformedNumber
	if errors.As(err, &malformed) {
		return ExitMalformedData
	}
	var nonFinite *pointset.ErrNonFinite
	if errors.As(err, &nonFinite) {
		return ExitMalformedData
	}
	var ragged *pointset.ErrRaggedRow
	if errors.As(err, &ragged) {
		return ExitRaggedRow
	}
	if errors.Is(err, fs.ErrRaggedRow) {
		return ExitRaggedRow
	}
	if errors.Is(err, fs.ErrIO) {
		return ExitIO
	}

	return ExitFailure
}
