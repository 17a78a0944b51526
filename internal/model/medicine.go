package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine categories.
const (
	CategoryOTC          = "OTC" // over the counter
	CategoryPrescription = "PRE"
	CategorySupplement   = "SUP"
	CategoryCosmetic     = "COS"
)

// CategoryLabel maps a category code to its display name.
func CategoryLabel(code string) string {
	switch code {
	case CategoryOTC:
		return "Over The Counter"
	case CategoryPrescription:
		return "Prescription"
	case CategorySupplement:
		return "Supplements"
	case CategoryCosmetic:
		return "Cosmetics"
	}
	return code
}

// Medicine is a catalog product. Price and PurchasePrice are per box;
// StripPrice, when unset, is derived as Price / StripsPerBox.
// Stock is a derived cache over non-expired StockEntry rows — it is only
// ever written through the stock service's Refresh, never by hand.
type Medicine struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BarcodeNumber string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"index;not null"`
	Description   *string
	Category      string           `gorm:"not null"` // OTC | PRE | SUP | COS
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	PurchasePrice decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	StripsPerBox  int              `gorm:"not null;default:1"`
	CanSellStrips bool             `gorm:"not null;default:true"`
	StripPrice    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock         int              `gorm:"not null;default:0"`
	ReorderLevel  int              `gorm:"not null;default:10"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid;index"`
	Active        bool             `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
