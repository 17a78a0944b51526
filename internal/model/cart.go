package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the session-scoped pending sale. It lives in Redis keyed by the
// operator's user id and is never the system of record: checkout consumes it,
// cancel discards it, and the TTL sweeps abandoned ones.
type Cart struct {
	CustomerID *uuid.UUID `json:"customer_id"`
	Lines      []CartLine `json:"lines"`
}

// CartLine freezes both the pre-discount and the discounted unit price at
// add time. SetCustomer recomputes DiscountedPrice for every line from
// scratch; OriginalPrice and Quantity never change after creation.
type CartLine struct {
	MedicineID      uuid.UUID       `json:"medicine_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitType        string          `json:"unit_type"` // BOX | STRIP
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
}

// Total returns the charged line total.
func (l *CartLine) Total() decimal.Decimal {
	return l.DiscountedPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums the charged totals of all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].Total())
	}
	return total
}
