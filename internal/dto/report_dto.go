package dto

import "github.com/shopspring/decimal"

// ─── Daily profit snapshot ───────────────────────────────────────────────────

type ProfitSnapshotResponse struct {
	Date             string          `json:"date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	NumberOfSales    int             `json:"number_of_sales"`
	AvgProfitPerSale decimal.Decimal `json:"avg_profit_per_sale"`
	TopCategory      string          `json:"top_category"`
	TopMedicine      *string         `json:"top_medicine"`
}

// ─── Range reports ───────────────────────────────────────────────────────────

type ReportRangeFilter struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   validate:"omitempty,datetime=2006-01-02"`
	Top  int    `form:"top,default=20" validate:"min=1,max=100"`
}

// MedicineProfitRow aggregates sold amount and historical profit per medicine.
type MedicineProfitRow struct {
	Medicine  string          `json:"medicine"`
	Sold      decimal.Decimal `json:"sold"`
	Profit    decimal.Decimal `json:"profit"`
	ItemCount int             `json:"item_count"`
}

type MedicineProfitReport struct {
	TopPositive []MedicineProfitRow `json:"top_positive"`
	TopNegative []MedicineProfitRow `json:"top_negative"`
}

// InventoryValueResponse is the current stock valued at purchase cost and at
// list price.
type InventoryValueResponse struct {
	TotalCostValue decimal.Decimal `json:"total_cost_value"`
	TotalListValue decimal.Decimal `json:"total_list_value"`
	MedicineCount  int             `json:"medicine_count"`
}
