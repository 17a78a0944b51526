package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateMedicineRequest struct {
	BarcodeNumber string          `json:"barcode_number" validate:"omitempty,numeric,min=8,max=13"`
	Name          string          `json:"name"           validate:"required,min=2,max=200"`
	Description   *string         `json:"description"`
	Category      string          `json:"category"       validate:"required,oneof=OTC PRE SUP COS"`
	Price         decimal.Decimal `json:"price"          validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required"`
	StripsPerBox  int             `json:"strips_per_box" validate:"min=1"`
	CanSellStrips *bool           `json:"can_sell_strips"`
	StripPrice    *decimal.Decimal `json:"strip_price"`
	ReorderLevel  int              `json:"reorder_level"  validate:"min=0"`
	SupplierID    *string          `json:"supplier_id"    validate:"omitempty,uuid"`
}

type UpdateMedicineRequest struct {
	Name          *string          `json:"name"           validate:"omitempty,min=2,max=200"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"       validate:"omitempty,oneof=OTC PRE SUP COS"`
	Price         *decimal.Decimal `json:"price"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	StripsPerBox  *int             `json:"strips_per_box" validate:"omitempty,min=1"`
	CanSellStrips *bool            `json:"can_sell_strips"`
	StripPrice    *decimal.Decimal `json:"strip_price"`
	ReorderLevel  *int             `json:"reorder_level"  validate:"omitempty,min=0"`
	SupplierID    *string          `json:"supplier_id"    validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MedicineFilter struct {
	Barcode    string `form:"barcode"`
	Name       string `form:"name"`
	Category   string `form:"category"`
	SupplierID string `form:"supplier_id"`
	Active     string `form:"active"` // "false" = inactive, "all" = everything, default active only
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MedicineResponse struct {
	ID            string          `json:"id"`
	BarcodeNumber string          `json:"barcode_number"`
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	StripsPerBox  int             `json:"strips_per_box"`
	CanSellStrips bool            `json:"can_sell_strips"`
	StripPrice    decimal.Decimal `json:"strip_price"`
	Stock         int             `json:"stock"`
	ReorderLevel  int             `json:"reorder_level"`
	SupplierID    *string         `json:"supplier_id"`
	Active        bool            `json:"active"`
}

type MedicineListResponse struct {
	Data       []MedicineResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// LowStockAlert flags medicines at or below their reorder level.
type LowStockAlert struct {
	MedicineID   string `json:"medicine_id"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	ReorderLevel int    `json:"reorder_level"`
}

// PriceCheckResponse is returned by the public barcode price endpoint.
type PriceCheckResponse struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	StripPrice decimal.Decimal `json:"strip_price"`
	Stock      int             `json:"stock"`
	Category   string          `json:"category"`
}
