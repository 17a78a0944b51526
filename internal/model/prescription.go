package model

import (
	"time"

	"github.com/google/uuid"
)

// Prescription statuses.
const (
	PrescriptionPending         = "PENDING"
	PrescriptionDispensed       = "DISPENSED"
	PrescriptionCancelled       = "CANCELLED"
	PrescriptionRefillRequested = "REFILL_REQUESTED"
)

type Prescription struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	DoctorName       string     `gorm:"not null"`
	DoctorContact    string
	PrescriptionDate time.Time `gorm:"type:date;not null"`
	ExpiryDate       time.Time `gorm:"type:date;not null"`
	Status           string    `gorm:"not null;default:'PENDING'"`
	Notes            string
	RefillsAllowed   int        `gorm:"not null;default:0"`
	RefillsRemaining int        `gorm:"not null;default:0"`
	CreatedByID      uuid.UUID  `gorm:"type:uuid;not null"`
	SaleID           *uuid.UUID `gorm:"type:uuid"` // set when dispensed
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Customer  *Customer          `gorm:"foreignKey:CustomerID"`
	CreatedBy *User              `gorm:"foreignKey:CreatedByID"`
	Sale      *Sale              `gorm:"foreignKey:SaleID"`
	Items     []PrescriptionItem `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
}

type PrescriptionItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicineID     uuid.UUID `gorm:"type:uuid;not null"`
	Quantity       int       `gorm:"not null"`
	Dosage         string    // e.g. "1 tablet twice daily"
	Duration       string    // e.g. "7 days"
	Instructions   string

	Medicine *Medicine `gorm:"foreignKey:MedicineID"`
}
