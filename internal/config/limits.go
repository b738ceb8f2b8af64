package config

import (
	"errors"
	"fmt"
)

// ErrInputTooLarge is returned when an input exceeds a configured limit.
var ErrInputTooLarge = errors.New("input exceeds configured limit")

// CheckScores reports whether n score/label pairs fit within MaxScores.
func (l LimitsConfig) CheckScores(n int) error {
	return checkLimit("scores", n, l.MaxScores)
}

// CheckValues reports whether n value/bin pairs fit within MaxValues.
func (l LimitsConfig) CheckValues(n int) error {
	return checkLimit("values", n, l.MaxValues)
}

func checkLimit(what string, n, limit int) error {
	if limit > 0 && n > limit {
		return fmt.Errorf("%d %s, limit %d: %w", n, what, limit, ErrInputTooLarge)
	}
	return nil
}
