package service

// pricing.go — unit conversion and customer-tiered price computation.
// Pure functions: no repository access, no side effects. Every price decision
// in the system (cart add, customer retarget, checkout, reports) goes through
// PriceFor so discount and floor behavior cannot diverge between call sites.

import (
	"github.com/shopspring/decimal"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

// minMarginFactor is the profitability floor: unit cost plus 10%.
var minMarginFactor = decimal.NewFromFloat(1.10)

var oneHundred = decimal.NewFromInt(100)

// boxRatio sanitizes a medicine's strips-per-box ratio. A ratio below 1
// (legacy rows imported with 0) is treated as 1 so strip math never divides
// by zero.
func boxRatio(med *model.Medicine) int64 {
	if med.StripsPerBox < 1 {
		return 1
	}
	return int64(med.StripsPerBox)
}

// ToBoxes converts a sold quantity into (possibly fractional) boxes.
func ToBoxes(quantity int, unit string, med *model.Medicine) decimal.Decimal {
	q := decimal.NewFromInt(int64(quantity))
	if unit == model.UnitStrip {
		return q.Div(decimal.NewFromInt(boxRatio(med)))
	}
	return q
}

// UnitPrice returns the undiscounted price for one unit: the box list price,
// or the explicit strip price when set, else list price / strips per box.
func UnitPrice(med *model.Medicine, unit string) decimal.Decimal {
	if unit != model.UnitStrip {
		return med.Price
	}
	if med.StripPrice != nil && !med.StripPrice.IsZero() {
		return *med.StripPrice
	}
	return med.Price.Div(decimal.NewFromInt(boxRatio(med)))
}

// CostFloor is the minimum profitable price for one unit: purchase cost
// (scaled down to the strip when unit=STRIP) plus 10%. A purchase price of 0
// yields a floor of 0 — heavy discounts may then legitimately reach 0.
func CostFloor(med *model.Medicine, unit string) decimal.Decimal {
	cost := med.PurchasePrice
	if unit == model.UnitStrip {
		cost = cost.Div(decimal.NewFromInt(boxRatio(med)))
	}
	return cost.Mul(minMarginFactor)
}

// PriceFor computes the charged unit price for a customer:
//   - FAMILY tier pays the cost floor exactly, ignoring its percentage field;
//   - a percentage discount is applied but clamped at the cost floor;
//   - no customer (or zero discount) pays the base price.
func PriceFor(med *model.Medicine, unit string, customer *model.Customer) decimal.Decimal {
	base := UnitPrice(med, unit)
	if customer == nil {
		return base
	}

	floor := CostFloor(med, unit)
	if customer.CustomerType == model.TierFamily {
		return floor
	}

	if customer.DiscountPercentage.IsZero() {
		return base
	}
	factor := decimal.NewFromInt(1).Sub(customer.DiscountPercentage.Div(oneHundred))
	candidate := base.Mul(factor)
	if candidate.LessThan(floor) {
		return floor
	}
	return candidate
}
