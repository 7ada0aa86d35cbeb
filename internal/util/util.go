package util

import (
	"fmt"
	"math"
)

// Contains checks if a slice contains a specific string
func Contains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// Round Method to round to 2 decimals
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

// ISKToMillions converts a raw ISK value to millions.
func ISKToMillions[T ~int64 | ~float64](isk T) float64 {
	return float64(isk) / 1_000_000
}

// FormatISK renders an ISK value for display ("1.2b", "340.5m", "900.0k").
func FormatISK(isk float64) string {
	switch {
	case isk >= 1_000_000_000:
		return fmt.Sprintf("%.1fb", isk/1_000_000_000)
	case isk >= 1_000_000:
		return fmt.Sprintf("%.1fm", isk/1_000_000)
	default:
		return fmt.Sprintf("%.1fk", isk/1_000)
	}
}
