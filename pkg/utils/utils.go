package utils

import (
	"encoding/json"
	"math"

	"github.com/invopop/jsonschema"
)

// GetSchemaFromConfig returns the JSON schema describing a configuration struct.
func GetSchemaFromConfig(config any) (string, error) {
	schema := jsonschema.Reflect(config)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// RoundToDecimalPrecision rounds the quantity down to the given decimal precision.
// Rounding down avoids submitting more volume than the caller asked for.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}
