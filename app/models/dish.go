package models

import "github.com/shopspring/decimal"

// Dish is a catalog record returned by GET /payment.
type Dish struct {
	ID    ID              `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// LineItem is a dish as shown on the order panel. Price is Amount times the
// unit price.
type LineItem struct {
	ID     ID
	Image  string
	Amount int
	Name   string
	Price  decimal.Decimal
}
