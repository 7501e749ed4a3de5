package files

import (
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with 1024-based units, e.g. "1.5 KB".
// Trailing zeros of the fraction are dropped.
func FormatBytes(n int64, decimals int) string {
	if n <= 0 {
		return "0 Bytes"
	}
	if decimals < 0 {
		decimals = 0
	}

	const k = 1024
	value := float64(n)
	i := 0
	for value >= k && i < len(sizeUnits)-1 {
		value /= k
		i++
	}

	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(value, 'f', decimals, 64), 64)
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}
