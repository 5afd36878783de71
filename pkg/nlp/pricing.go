package nlp

import (
	"sort"
	"strings"
)

// ModelPrice is the USD price per million tokens.
type ModelPrice struct {
	Input  float64
	Output float64
}

// modelPrices is keyed by model name prefix. The longest matching prefix wins.
var modelPrices = map[string]ModelPrice{
	"gpt-4o-mini":   {Input: 0.15, Output: 0.60},
	"gpt-4o":        {Input: 2.50, Output: 10.00},
	"gpt-4.1-nano":  {Input: 0.10, Output: 0.40},
	"gpt-4.1-mini":  {Input: 0.40, Output: 1.60},
	"gpt-4.1":       {Input: 2.00, Output: 8.00},
	"gpt-4-turbo":   {Input: 10.00, Output: 30.00},
	"gpt-4":         {Input: 30.00, Output: 60.00},
	"gpt-3.5-turbo": {Input: 0.50, Output: 1.50},
	"o3-mini":       {Input: 1.10, Output: 4.40},
}

var pricePrefixes = func() []string {
	prefixes := make([]string, 0, len(modelPrices))
	for p := range modelPrices {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	return prefixes
}()

// CalculateCost returns the USD cost of a call. Unknown models cost 0.
func CalculateCost(model string, promptTokens, completionTokens int) float64 {
	model = strings.ToLower(model)
	for _, prefix := range pricePrefixes {
		if strings.HasPrefix(model, prefix) {
			price := modelPrices[prefix]
			return (float64(promptTokens)*price.Input + float64(completionTokens)*price.Output) / 1_000_000
		}
	}
	return 0
}
