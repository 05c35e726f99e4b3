package entities

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals are JSON numbers on the API and in event payloads.
	decimal.MarshalJSONWithoutQuotes = true
}
