package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase order statuses.
const (
	PurchasePending   = "PENDING"
	PurchaseReceived  = "RECEIVED"
	PurchaseCancelled = "CANCELLED"
)

// Purchase is a purchase order against a supplier. Receiving it converts every
// item into a stock lot and freezes the order.
type Purchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"uniqueIndex;not null"`
	Status        string          `gorm:"not null;default:'PENDING'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Notes         string
	CreatedByID   uuid.UUID `gorm:"type:uuid;not null"`
	Date          time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Supplier  *Supplier      `gorm:"foreignKey:SupplierID"`
	CreatedBy *User          `gorm:"foreignKey:CreatedByID"`
	Items     []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseItem records the unit (box) cost paid — this is the source for
// historical profit attribution.
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedicineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpiryDate time.Time       `gorm:"type:date;not null"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID"`
}

// Subtotal returns quantity × unit cost for the item.
func (i *PurchaseItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
