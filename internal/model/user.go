package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin        = "ADMIN"
	RolePharmacist   = "PHARMACIST"
	RoleCashier      = "CASHIER"
	RoleStockManager = "STOCK_MANAGER"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	Email        string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'CASHIER'"`
	Phone        string
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
