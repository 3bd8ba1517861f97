package utils

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

func RoundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}

// NewID returns a prefixed entity id, e.g. "DEP-3FA8C21B".
// The suffix is the first hex group of a v4 UUID.
func NewID(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}
