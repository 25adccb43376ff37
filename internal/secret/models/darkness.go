package models

import (
	"errors"
	"math"
)

// ErrNoRatings is returned when an aggregate is requested over zero ratings.
// The store seeds every secret with the author's own rating, so hitting this
// means an invariant was broken upstream.
var ErrNoRatings = errors.New("cannot average an empty rating set")

// AverageDarkness returns the round-half-up mean of the given rating values.
func AverageDarkness(values []int) (int, error) {
	if len(values) == 0 {
		return 0, ErrNoRatings
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return int(math.Floor(mean + 0.5)), nil
}
