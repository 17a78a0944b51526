package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfitAnalytics is one fully-recomputed snapshot per calendar date.
// Regeneration always replaces the whole row (upsert-by-date) — the snapshot
// is never incrementally patched, so re-running it is drift-free.
type ProfitAnalytics struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Date                 time.Time       `gorm:"type:date;uniqueIndex;not null"`
	TotalSales           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCost            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalProfit          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ProfitMargin         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // percentage
	NumberOfSales        int             `gorm:"not null;default:0"`
	AvgProfitPerSale     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TopCategory          string
	TopMedicineID        *uuid.UUID `gorm:"type:uuid"`

	TopMedicine *Medicine `gorm:"foreignKey:TopMedicineID;constraint:OnDelete:SET NULL"`
}

// TableName keeps the table singular-free ("profit_analytics", not "profit_analyticses").
func (ProfitAnalytics) TableName() string { return "profit_analytics" }
