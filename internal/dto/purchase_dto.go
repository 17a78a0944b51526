package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreatePurchaseRequest struct {
	SupplierID    string `json:"supplier_id"    validate:"required,uuid"`
	InvoiceNumber string `json:"invoice_number" validate:"required,min=1,max=50"`
	Notes         string `json:"notes"`
}

type AddPurchaseItemRequest struct {
	MedicineID string          `json:"medicine_id" validate:"required,uuid"`
	Quantity   int             `json:"quantity"    validate:"required,min=1"`
	Price      decimal.Decimal `json:"price"       validate:"required"`
	ExpiryDate string          `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	ID         string          `json:"id"`
	Medicine   string          `json:"medicine"`
	MedicineID string          `json:"medicine_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	ExpiryDate string          `json:"expiry_date"`
}

type PurchaseResponse struct {
	ID            string                 `json:"id"`
	Supplier      string                 `json:"supplier"`
	SupplierID    string                 `json:"supplier_id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Status        string                 `json:"status"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Notes         string                 `json:"notes"`
	Items         []PurchaseItemResponse `json:"items"`
	Date          string                 `json:"date"`
}

// ─── Supplier DTOs ───────────────────────────────────────────────────────────

type CreateSupplierRequest struct {
	Name          string `json:"name"           validate:"required,min=2,max=200"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"          validate:"omitempty,email"`
	Address       string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=200"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Address       *string `json:"address"`
}

type SupplierResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Active        bool   `json:"active"`
}
