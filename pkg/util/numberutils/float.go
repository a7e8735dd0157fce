package numberutils

import (
	"strconv"
)

// ToFloat64WithError converts the given string to a float64 and returns any error
// that occurred during conversion.
func ToFloat64WithError(str string) (float64, error) {
	return strconv.ParseFloat(str, 64)
}

// ToFloat64WithDefault converts the given string to a float64.
// If the string cannot be converted, it returns the provided default value.
func ToFloat64WithDefault(s string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

// FormatFloat converts the given float64 to its shortest decimal representation.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
