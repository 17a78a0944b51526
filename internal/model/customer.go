package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer tiers. FAMILY always pays the cost floor (purchase price + 10%),
// regardless of DiscountPercentage.
const (
	TierRegular   = "REGULAR"
	TierFamily    = "FAMILY"
	TierVIP       = "VIP"
	TierWholesale = "WHOLESALE"
)

type Customer struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"not null"`
	Phone              string    `gorm:"uniqueIndex;not null"`
	Email              string
	Address            string
	CustomerType       string          `gorm:"not null;default:'REGULAR'"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Points             int             `gorm:"not null;default:0"`
	Active             bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
