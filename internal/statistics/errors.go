package statistics

import (
	"errors"

	"github.com/plpstats/plpstats/internal/validation"
)

var (
	// ErrEmptyInput is returned when no scores are supplied.
	ErrEmptyInput = validation.ErrEmptyInput

	// ErrShapeMismatch is returned when scores and labels differ in length.
	ErrShapeMismatch = validation.ErrShapeMismatch

	// ErrDegenerateClass is returned when only one label class is present,
	// which leaves the AUC undefined.
	ErrDegenerateClass = errors.New("degenerate class: both labels 0 and 1 are required")

	// ErrInvalidLabel is returned for a label outside {0, 1}.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrNonFiniteScore is returned for a NaN score, which cannot be ranked.
	ErrNonFiniteScore = errors.New("score is NaN")
)
