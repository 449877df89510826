package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
)

// unmarshal a byte array to its corresponding object
func FromDataToSpec[T any](byteValue []byte) (*T, error) {
	var d T
	if err := json.Unmarshal(byteValue, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Helper to check if a value is valid (not NaN or infinite)
func CheckValue(x float64) bool {
	return !(math.IsNaN(x) || math.IsInf(x, 0))
}

// Helper to check that all values are valid
func CheckValues(xs ...float64) bool {
	for _, x := range xs {
		if !CheckValue(x) {
			return false
		}
	}
	return true
}

var quotesAndNewlines = regexp.MustCompile("\"|\n")

// compact JSON rendering for log fields
func MarshalStructToJsonString(t any) string {
	jsonBytes, err := json.MarshalIndent(t, "", " ")
	if err != nil {
		return fmt.Sprintf("error marshalling: %v", err)
	}
	return quotesAndNewlines.ReplaceAllString(string(jsonBytes), "")
}
