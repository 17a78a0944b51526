package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AddLotRequest creates one dated stock lot. ExpirationDate must be a future
// date on this interactive path — historical backfill goes through the import
// contract instead.
type AddLotRequest struct {
	MedicineID     string `json:"medicine_id"     validate:"required,uuid"`
	Quantity       int    `json:"quantity"        validate:"required,min=0"`
	ExpirationDate string `json:"expiration_date" validate:"required,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LotResponse struct {
	ID              string `json:"id"`
	MedicineID      string `json:"medicine_id"`
	Quantity        int    `json:"quantity"`
	StripsRemaining *int   `json:"strips_remaining"`
	ExpirationDate  string `json:"expiration_date"`
	CreatedAt       string `json:"created_at"`
}

type StockRefreshResponse struct {
	MedicineID string `json:"medicine_id"`
	Stock      int    `json:"stock"`
}

// MaintenanceResponse reports the effect of prune / merge sweeps.
type MaintenanceResponse struct {
	Affected int64  `json:"affected"`
	Detail   string `json:"detail"`
}

// ExpiringLot is one row of the expiry report.
type ExpiringLot struct {
	MedicineID     string `json:"medicine_id"`
	Medicine       string `json:"medicine"`
	Quantity       int    `json:"quantity"`
	ExpirationDate string `json:"expiration_date"`
	DaysLeft       int    `json:"days_left"`
}
