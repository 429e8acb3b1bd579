package entity

// ModifierLine is one named price adjustment inside a breakdown.
type ModifierLine struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"` // signed, currency minor units
}

// PriceBreakdown is the auditable result of the pricing calculator.
// Immutable once computed; Total equals Base plus the sum of modifier
// amounts exactly (integer arithmetic, no floating point).
type PriceBreakdown struct {
	Base      int64          `json:"base"`
	Modifiers []ModifierLine `json:"modifiers"`
	Total     int64          `json:"total"`
}
