package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale units and payment methods.
const (
	UnitBox   = "BOX"
	UnitStrip = "STRIP"

	PaymentCash = "CASH"
	PaymentCard = "CARD"
)

// Sale is created atomically at checkout and is immutable once completed.
// Customer is referenced, not owned — the sale survives customer deletion.
type Sale struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"not null;default:'CASH'"` // CASH | CARD
	Completed     bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"index"`

	User     *User      `gorm:"foreignKey:UserID"`
	Customer *Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem freezes the actually charged unit price at sale time — it is never
// recomputed. ExpiryDate records the lot the stock was drawn from.
type SaleItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedicineID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitType   string          `gorm:"not null;default:'BOX'"` // BOX | STRIP
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpiryDate time.Time       `gorm:"type:date;not null"`

	Medicine *Medicine `gorm:"foreignKey:MedicineID"`
}

// Subtotal is the charged line total (frozen unit price × quantity).
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
