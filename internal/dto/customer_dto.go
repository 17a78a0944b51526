package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name               string          `json:"name"                validate:"required,min=2,max=200"`
	Phone              string          `json:"phone"               validate:"required,min=5,max=20"`
	Email              string          `json:"email"               validate:"omitempty,email"`
	Address            string          `json:"address"`
	CustomerType       string          `json:"customer_type"       validate:"omitempty,oneof=REGULAR FAMILY VIP WHOLESALE"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage" validate:"min=0,max=100"`
}

type UpdateCustomerRequest struct {
	Name               *string          `json:"name"                validate:"omitempty,min=2,max=200"`
	Phone              *string          `json:"phone"               validate:"omitempty,min=5,max=20"`
	Email              *string          `json:"email"               validate:"omitempty,email"`
	Address            *string          `json:"address"`
	CustomerType       *string          `json:"customer_type"       validate:"omitempty,oneof=REGULAR FAMILY VIP WHOLESALE"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,min=0,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	Address            string          `json:"address"`
	CustomerType       string          `json:"customer_type"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Points             int             `json:"points"`
	Active             bool            `json:"active"`
}
