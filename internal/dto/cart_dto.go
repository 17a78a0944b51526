package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AddCartLineRequest adds one line to the operator's cart. Lookup is by
// barcode, matching the POS scanner flow.
type AddCartLineRequest struct {
	Barcode  string `json:"barcode"   validate:"required"`
	Quantity int    `json:"quantity"  validate:"required,min=1"`
	UnitType string `json:"unit_type" validate:"omitempty,oneof=BOX STRIP"`
}

// SetCartCustomerRequest retargets the cart; a nil CustomerID clears the
// selection and restores undiscounted prices.
type SetCartCustomerRequest struct {
	CustomerID *string `json:"customer_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartLineResponse struct {
	Medicine        string          `json:"medicine"`
	MedicineID      string          `json:"medicine_id"`
	Quantity        int             `json:"quantity"`
	UnitType        string          `json:"unit_type"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	Total           decimal.Decimal `json:"total"`
}

type CartResponse struct {
	CustomerID    *string            `json:"customer_id"`
	Lines         []CartLineResponse `json:"lines"`
	OriginalTotal decimal.Decimal    `json:"original_total"`
	Total         decimal.Decimal    `json:"total"`
}
