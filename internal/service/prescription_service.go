package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

// PrescriptionService tracks doctor prescriptions through their lifecycle:
// PENDING → DISPENSED (optionally linked to the fulfilling sale), with refill
// requests cycling dispensed prescriptions back to pending.
type PrescriptionService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
	List(ctx context.Context, status string) ([]dto.PrescriptionResponse, error)
	Dispense(ctx context.Context, id uuid.UUID, req dto.DispensePrescriptionRequest) (*dto.PrescriptionResponse, error)
	RequestRefill(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type prescriptionService struct {
	repo         repository.PrescriptionRepository
	customerRepo repository.CustomerRepository
	medicineRepo repository.MedicineRepository
}

func NewPrescriptionService(
	repo repository.PrescriptionRepository,
	customerRepo repository.CustomerRepository,
	medicineRepo repository.MedicineRepository,
) PrescriptionService {
	return &prescriptionService{repo: repo, customerRepo: customerRepo, medicineRepo: medicineRepo}
}

func (s *prescriptionService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return nil, ErrCustomerNotFound
	}

	prescriptionDate, err := time.Parse("2006-01-02", req.PrescriptionDate)
	if err != nil {
		return nil, errors.New("bad prescription date")
	}
	expiryDate, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, errors.New("bad expiry date")
	}
	if !expiryDate.After(prescriptionDate) {
		return nil, errors.New("expiry date must be after prescription date")
	}

	prescription := &model.Prescription{
		CustomerID:       customerID,
		DoctorName:       req.DoctorName,
		DoctorContact:    req.DoctorContact,
		PrescriptionDate: prescriptionDate,
		ExpiryDate:       expiryDate,
		Status:           model.PrescriptionPending,
		Notes:            req.Notes,
		RefillsAllowed:   req.RefillsAllowed,
		RefillsRemaining: req.RefillsAllowed,
		CreatedByID:      userID,
	}

	for _, item := range req.Items {
		medID, err := uuid.Parse(item.MedicineID)
		if err != nil {
			return nil, ErrMedicineNotFound
		}
		if _, err := s.medicineRepo.FindByID(ctx, medID); err != nil {
			return nil, ErrMedicineNotFound
		}
		prescription.Items = append(prescription.Items, model.PrescriptionItem{
			MedicineID:   medID,
			Quantity:     item.Quantity,
			Dosage:       item.Dosage,
			Duration:     item.Duration,
			Instructions: item.Instructions,
		})
	}

	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, err
	}
	return s.Get(ctx, prescription.ID)
}

func (s *prescriptionService) Get(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("prescription not found")
	}
	return prescriptionToResponse(prescription), nil
}

func (s *prescriptionService) List(ctx context.Context, status string) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		out = append(out, *prescriptionToResponse(&prescriptions[i]))
	}
	return out, nil
}

// Dispense marks the prescription fulfilled and optionally links the sale
// that fulfilled it. An expired prescription cannot be dispensed.
func (s *prescriptionService) Dispense(ctx context.Context, id uuid.UUID, req dto.DispensePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	prescription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("prescription not found")
	}
	if prescription.Status != model.PrescriptionPending && prescription.Status != model.PrescriptionRefillRequested {
		return nil, fmt.Errorf("prescription is %s, cannot dispense", prescription.Status)
	}
	if prescription.ExpiryDate.Before(dateOnly(time.Now())) {
		return nil, errors.New("prescription has expired")
	}

	if prescription.Status == model.PrescriptionRefillRequested {
		if prescription.RefillsRemaining <= 0 {
			return nil, errors.New("no refills remaining")
		}
		prescription.RefillsRemaining--
	}

	prescription.Status = model.PrescriptionDispensed
	if req.SaleID != nil {
		saleID, err := uuid.Parse(*req.SaleID)
		if err != nil {
			return nil, errors.New("bad sale id")
		}
		prescription.SaleID = &saleID
	}

	if err := s.repo.Update(ctx, prescription); err != nil {
		return nil, err
	}
	log.Info().Str("prescription_id", id.String()).Msg("prescription dispensed")
	return prescriptionToResponse(prescription), nil
}

// RequestRefill cycles a dispensed prescription back for another round while
// refills remain.
func (s *prescriptionService) RequestRefill(ctx context.Context, id uuid.UUID) (*dto.PrescriptionResponse, error) {
	prescription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("prescription not found")
	}
	if prescription.Status != model.PrescriptionDispensed {
		return nil, fmt.Errorf("prescription is %s, only dispensed prescriptions can be refilled", prescription.Status)
	}
	if prescription.RefillsRemaining <= 0 {
		return nil, errors.New("no refills remaining")
	}
	if prescription.ExpiryDate.Before(dateOnly(time.Now())) {
		return nil, errors.New("prescription has expired")
	}

	prescription.Status = model.PrescriptionRefillRequested
	if err := s.repo.Update(ctx, prescription); err != nil {
		return nil, err
	}
	return prescriptionToResponse(prescription), nil
}

func (s *prescriptionService) Cancel(ctx context.Context, id uuid.UUID) error {
	prescription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("prescription not found")
	}
	if prescription.Status == model.PrescriptionDispensed {
		return errors.New("dispensed prescriptions cannot be cancelled")
	}
	prescription.Status = model.PrescriptionCancelled
	return s.repo.Update(ctx, prescription)
}

func prescriptionToResponse(p *model.Prescription) *dto.PrescriptionResponse {
	items := make([]dto.PrescriptionItemResponse, 0, len(p.Items))
	for i := range p.Items {
		item := &p.Items[i]
		name := ""
		if item.Medicine != nil {
			name = item.Medicine.Name
		}
		items = append(items, dto.PrescriptionItemResponse{
			Medicine:     name,
			MedicineID:   item.MedicineID.String(),
			Quantity:     item.Quantity,
			Dosage:       item.Dosage,
			Duration:     item.Duration,
			Instructions: item.Instructions,
		})
	}
	customerName := ""
	if p.Customer != nil {
		customerName = p.Customer.Name
	}
	var saleID *string
	if p.SaleID != nil {
		id := p.SaleID.String()
		saleID = &id
	}
	return &dto.PrescriptionResponse{
		ID:               p.ID.String(),
		Customer:         customerName,
		CustomerID:       p.CustomerID.String(),
		DoctorName:       p.DoctorName,
		DoctorContact:    p.DoctorContact,
		PrescriptionDate: p.PrescriptionDate.Format("2006-01-02"),
		ExpiryDate:       p.ExpiryDate.Format("2006-01-02"),
		Status:           p.Status,
		Notes:            p.Notes,
		RefillsAllowed:   p.RefillsAllowed,
		RefillsRemaining: p.RefillsRemaining,
		SaleID:           saleID,
		Items:            items,
	}
}
