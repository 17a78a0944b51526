package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CheckoutRequest completes the operator's current cart as a sale.
type CheckoutRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=CASH CARD"`
	CustomerID    *string `json:"customer_id"    validate:"omitempty,uuid"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type SaleFilter struct {
	Date  string `form:"date"` // YYYY-MM-DD; empty = today
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Medicine   string          `json:"medicine"`
	Quantity   int             `json:"quantity"`
	UnitType   string          `json:"unit_type"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ExpiryDate string          `json:"expiry_date"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Customer      *string            `json:"customer"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	PointsAwarded int                `json:"points_awarded"`
	CreatedAt     string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
