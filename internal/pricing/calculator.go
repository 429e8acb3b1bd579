// Package pricing assembles a reservation price from a court base price
// and a fixed, ordered set of modifiers. The calculator is pure: no I/O,
// no clock, identical inputs always produce an identical breakdown, so a
// stored price can be re-verified against current rules after the fact.
package pricing

import (
	"court-booking/internal/data/entity"
)

// Rules are the tunable pricing parameters, loaded from config.
// All amounts are currency minor units.
type Rules struct {
	PeakStartMinutes int   // inclusive, minutes since midnight
	PeakEndMinutes   int   // exclusive
	PeakSurcharge    int64 // flat surcharge for slots starting inside the window
	IndoorSurcharge  int64 // flat surcharge for indoor courts
}

// AddonCharge is a resolved add-on reference.
type AddonCharge struct {
	Name  string
	Price int64
}

// CoachCharge is a resolved coach reference.
type CoachCharge struct {
	Name      string
	HourlyFee int64
}

// Input carries the fully resolved modifier inputs for one quote.
// Reference resolution (addon/coach lookups) happens before this point.
type Input struct {
	CourtType entity.CourtType
	Addons    []AddonCharge // in request order
	Coach     *CoachCharge
}

type Calculator struct {
	rules Rules
}

func NewCalculator(rules Rules) *Calculator {
	return &Calculator{rules: rules}
}

// Quote computes the price breakdown for one slot. Modifiers are applied
// in a fixed order so the breakdown is reproducible and auditable:
// peak-hour surcharge, court-type adjustment, add-ons, coach fee.
// Zero-amount modifiers are omitted from the breakdown.
func (c *Calculator) Quote(basePrice int64, slot entity.SlotKey, in Input) entity.PriceBreakdown {
	breakdown := entity.PriceBreakdown{
		Base:  basePrice,
		Total: basePrice,
	}

	apply := func(name string, amount int64) {
		if amount == 0 {
			return
		}
		breakdown.Modifiers = append(breakdown.Modifiers, entity.ModifierLine{Name: name, Amount: amount})
		breakdown.Total += amount
	}

	if slot.StartMinutes >= c.rules.PeakStartMinutes && slot.StartMinutes < c.rules.PeakEndMinutes {
		apply("peak_hour", c.rules.PeakSurcharge)
	}

	if in.CourtType == entity.CourtTypeIndoor {
		apply("indoor_court", c.rules.IndoorSurcharge)
	}

	for _, addon := range in.Addons {
		apply("addon:"+addon.Name, addon.Price)
	}

	if in.Coach != nil {
		apply("coach:"+in.Coach.Name, in.Coach.HourlyFee)
	}

	return breakdown
}
