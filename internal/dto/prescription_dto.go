package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PrescriptionItemRequest struct {
	MedicineID   string `json:"medicine_id"  validate:"required,uuid"`
	Quantity     int    `json:"quantity"     validate:"required,min=1"`
	Dosage       string `json:"dosage"       validate:"required"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type CreatePrescriptionRequest struct {
	CustomerID       string                    `json:"customer_id"       validate:"required,uuid"`
	DoctorName       string                    `json:"doctor_name"       validate:"required,min=2,max=100"`
	DoctorContact    string                    `json:"doctor_contact"`
	PrescriptionDate string                    `json:"prescription_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate       string                    `json:"expiry_date"       validate:"required,datetime=2006-01-02"`
	Notes            string                    `json:"notes"`
	RefillsAllowed   int                       `json:"refills_allowed"   validate:"min=0"`
	Items            []PrescriptionItemRequest `json:"items"             validate:"required,min=1,dive"`
}

// DispensePrescriptionRequest links the completed sale that fulfilled the
// prescription.
type DispensePrescriptionRequest struct {
	SaleID *string `json:"sale_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PrescriptionItemResponse struct {
	Medicine     string `json:"medicine"`
	MedicineID   string `json:"medicine_id"`
	Quantity     int    `json:"quantity"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type PrescriptionResponse struct {
	ID               string                     `json:"id"`
	Customer         string                     `json:"customer"`
	CustomerID       string                     `json:"customer_id"`
	DoctorName       string                     `json:"doctor_name"`
	DoctorContact    string                     `json:"doctor_contact"`
	PrescriptionDate string                     `json:"prescription_date"`
	ExpiryDate       string                     `json:"expiry_date"`
	Status           string                     `json:"status"`
	Notes            string                     `json:"notes"`
	RefillsAllowed   int                        `json:"refills_allowed"`
	RefillsRemaining int                        `json:"refills_remaining"`
	SaleID           *string                    `json:"sale_id"`
	Items            []PrescriptionItemResponse `json:"items"`
}
