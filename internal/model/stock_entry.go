package model

import (
	"time"

	"github.com/google/uuid"
)

// StockEntry is one dated lot of stock for a medicine. Quantity counts whole
// boxes; StripsRemaining counts loose strips from an opened box (nil when the
// medicine is never sold by strip). Consumption order is first-expiry-first-out,
// ties broken by CreatedAt.
type StockEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicineID      uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_med_exp,priority:1"`
	Quantity        int       `gorm:"not null"`
	StripsRemaining *int
	ExpirationDate  time.Time `gorm:"type:date;not null;index:idx_stock_med_exp,priority:2"`
	CreatedAt       time.Time

	Medicine *Medicine `gorm:"foreignKey:MedicineID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default pluralization (stock_entrys → stock_entries).
func (StockEntry) TableName() string { return "stock_entries" }

// Expired reports whether the lot is expired as of the given date.
func (e *StockEntry) Expired(asOf time.Time) bool {
	return e.ExpirationDate.Before(asOf.Truncate(24 * time.Hour))
}

// AvailableStrips returns the total strip count held by this lot.
func (e *StockEntry) AvailableStrips(stripsPerBox int) int {
	if stripsPerBox < 1 {
		stripsPerBox = 1
	}
	strips := e.Quantity * stripsPerBox
	if e.StripsRemaining != nil {
		strips += *e.StripsRemaining
	}
	return strips
}
