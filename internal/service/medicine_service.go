package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

type MedicineService interface {
	Create(ctx context.Context, req dto.CreateMedicineRequest) (*dto.MedicineResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMedicineRequest) (*dto.MedicineResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.MedicineResponse, error)
	List(ctx context.Context, filter dto.MedicineFilter) (*dto.MedicineListResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	LowStockAlerts(ctx context.Context) ([]dto.LowStockAlert, error)
	PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error)
}

type medicineService struct {
	repo repository.MedicineRepository
}

func NewMedicineService(repo repository.MedicineRepository) MedicineService {
	return &medicineService{repo: repo}
}

// ── Create / Update ───────────────────────────────────────────────────────────

func (s *medicineService) Create(ctx context.Context, req dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	barcode := req.BarcodeNumber
	if barcode == "" {
		generated, err := s.generateBarcode(ctx)
		if err != nil {
			return nil, err
		}
		barcode = generated
	} else {
		exists, err := s.repo.BarcodeExists(ctx, barcode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("barcode %s already registered", barcode)
		}
	}

	stripsPerBox := req.StripsPerBox
	if stripsPerBox < 1 {
		stripsPerBox = 1
	}
	canSellStrips := true
	if req.CanSellStrips != nil {
		canSellStrips = *req.CanSellStrips
	}

	med := &model.Medicine{
		BarcodeNumber: barcode,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		PurchasePrice: req.PurchasePrice,
		StripsPerBox:  stripsPerBox,
		CanSellStrips: canSellStrips,
		StripPrice:    req.StripPrice,
		ReorderLevel:  req.ReorderLevel,
		Active:        true,
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, errors.New("supplier not found")
		}
		med.SupplierID = &supplierID
	}

	if err := s.repo.Create(ctx, med); err != nil {
		return nil, err
	}
	log.Info().Str("medicine_id", med.ID.String()).Str("barcode", barcode).Msg("medicine created")
	return medicineToResponse(med), nil
}

func (s *medicineService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	med, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrMedicineNotFound
	}

	if req.Name != nil {
		med.Name = *req.Name
	}
	if req.Description != nil {
		med.Description = req.Description
	}
	if req.Category != nil {
		med.Category = *req.Category
	}
	if req.Price != nil {
		med.Price = *req.Price
	}
	if req.PurchasePrice != nil {
		med.PurchasePrice = *req.PurchasePrice
	}
	if req.StripsPerBox != nil && *req.StripsPerBox >= 1 {
		med.StripsPerBox = *req.StripsPerBox
	}
	if req.CanSellStrips != nil {
		med.CanSellStrips = *req.CanSellStrips
	}
	if req.StripPrice != nil {
		med.StripPrice = req.StripPrice
	}
	if req.ReorderLevel != nil {
		med.ReorderLevel = *req.ReorderLevel
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, errors.New("supplier not found")
		}
		med.SupplierID = &supplierID
	}

	if err := s.repo.Update(ctx, med); err != nil {
		return nil, err
	}
	return medicineToResponse(med), nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *medicineService) Get(ctx context.Context, id uuid.UUID) (*dto.MedicineResponse, error) {
	med, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrMedicineNotFound
	}
	return medicineToResponse(med), nil
}

func (s *medicineService) GetByBarcode(ctx context.Context, barcode string) (*dto.MedicineResponse, error) {
	med, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrMedicineNotFound
	}
	return medicineToResponse(med), nil
}

func (s *medicineService) List(ctx context.Context, filter dto.MedicineFilter) (*dto.MedicineListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	medicines, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MedicineResponse, 0, len(medicines))
	for i := range medicines {
		items = append(items, *medicineToResponse(&medicines[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.MedicineListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *medicineService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrMedicineNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *medicineService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *medicineService) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlert, error) {
	medicines, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlert, 0, len(medicines))
	for i := range medicines {
		med := &medicines[i]
		alerts = append(alerts, dto.LowStockAlert{
			MedicineID:   med.ID.String(),
			Name:         med.Name,
			Stock:        med.Stock,
			ReorderLevel: med.ReorderLevel,
		})
	}
	return alerts, nil
}

// PriceCheck serves the public price-checker kiosk: name, both unit prices
// and current stock for a scanned barcode.
func (s *medicineService) PriceCheck(ctx context.Context, barcode string) (*dto.PriceCheckResponse, error) {
	med, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrMedicineNotFound
	}
	return &dto.PriceCheckResponse{
		Name:       med.Name,
		Price:      med.Price,
		StripPrice: UnitPrice(med, model.UnitStrip),
		Stock:      med.Stock,
		Category:   model.CategoryLabel(med.Category),
	}, nil
}

// generateBarcode produces a unique 12-digit internal barcode for products
// that arrive without one (compounded items, bulk repacks).
func (s *medicineService) generateBarcode(ctx context.Context) (string, error) {
	// 2 prefix marks internally-assigned codes.
	upper := big.NewInt(100_000_000_000)
	for attempt := 0; attempt < 5; attempt++ {
		n, err := rand.Int(rand.Reader, upper)
		if err != nil {
			return "", err
		}
		barcode := fmt.Sprintf("2%011d", n)
		exists, err := s.repo.BarcodeExists(ctx, barcode)
		if err != nil {
			return "", err
		}
		if !exists {
			return barcode, nil
		}
	}
	return "", errors.New("could not generate a unique barcode")
}

func medicineToResponse(med *model.Medicine) *dto.MedicineResponse {
	var supplierID *string
	if med.SupplierID != nil {
		id := med.SupplierID.String()
		supplierID = &id
	}
	return &dto.MedicineResponse{
		ID:            med.ID.String(),
		BarcodeNumber: med.BarcodeNumber,
		Name:          med.Name,
		Description:   med.Description,
		Category:      med.Category,
		Price:         med.Price,
		PurchasePrice: med.PurchasePrice,
		StripsPerBox:  med.StripsPerBox,
		CanSellStrips: med.CanSellStrips,
		StripPrice:    UnitPrice(med, model.UnitStrip),
		Stock:         med.Stock,
		ReorderLevel:  med.ReorderLevel,
		SupplierID:    supplierID,
		Active:        med.Active,
	}
}
