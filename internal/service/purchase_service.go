package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

// PurchaseService manages supplier purchase orders. Receiving an order is the
// bridge into the stock ledger: every item becomes a dated lot and the
// medicine's purchase price is updated to the latest paid cost.
type PurchaseService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	AddItem(ctx context.Context, purchaseID uuid.UUID, req dto.AddPurchaseItemRequest) (*dto.PurchaseResponse, error)
	Receive(ctx context.Context, purchaseID uuid.UUID) (*dto.PurchaseResponse, error)
	Cancel(ctx context.Context, purchaseID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	List(ctx context.Context) ([]dto.PurchaseResponse, error)
}

type purchaseService struct {
	repo         repository.PurchaseRepository
	medicineRepo repository.MedicineRepository
	stockRepo    repository.StockRepository
	stock        StockService
}

func NewPurchaseService(
	repo repository.PurchaseRepository,
	medicineRepo repository.MedicineRepository,
	stockRepo repository.StockRepository,
	stock StockService,
) PurchaseService {
	return &purchaseService{repo: repo, medicineRepo: medicineRepo, stockRepo: stockRepo, stock: stock}
}

func (s *purchaseService) Create(ctx context.Context, userID uuid.UUID, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	purchase := &model.Purchase{
		SupplierID:    supplierID,
		InvoiceNumber: req.InvoiceNumber,
		Status:        model.PurchasePending,
		Notes:         req.Notes,
		CreatedByID:   userID,
		Date:          time.Now(),
	}
	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) AddItem(ctx context.Context, purchaseID uuid.UUID, req dto.AddPurchaseItemRequest) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, errors.New("purchase not found")
	}
	if purchase.Status != model.PurchasePending {
		return nil, fmt.Errorf("purchase is %s, items can only be added while pending", purchase.Status)
	}

	medID, err := uuid.Parse(req.MedicineID)
	if err != nil {
		return nil, ErrMedicineNotFound
	}
	if _, err := s.medicineRepo.FindByID(ctx, medID); err != nil {
		return nil, ErrMedicineNotFound
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, errors.New("bad expiry date")
	}

	item := &model.PurchaseItem{
		PurchaseID: purchase.ID,
		MedicineID: medID,
		Quantity:   req.Quantity,
		Price:      req.Price,
		ExpiryDate: expiry,
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	newTotal := purchase.TotalAmount.Add(item.Subtotal())
	if err := s.repo.UpdateTotal(ctx, purchase.ID, newTotal); err != nil {
		return nil, err
	}

	return s.Get(ctx, purchase.ID)
}

// Receive converts every order item into a dated stock lot, updates each
// medicine's purchase price to the paid cost, refreshes stock caches and
// freezes the order — all in one transaction.
func (s *purchaseService) Receive(ctx context.Context, purchaseID uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		return nil, errors.New("purchase not found")
	}
	if purchase.Status != model.PurchasePending {
		return nil, fmt.Errorf("purchase already %s", purchase.Status)
	}
	if len(purchase.Items) == 0 {
		return nil, errors.New("purchase has no items")
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range purchase.Items {
			item := &purchase.Items[i]
			entry := &model.StockEntry{
				MedicineID:     item.MedicineID,
				Quantity:       item.Quantity,
				ExpirationDate: item.ExpiryDate,
			}
			if tx == nil {
				if err := s.stockRepo.Create(ctx, entry); err != nil {
					return err
				}
			} else if err := s.stockRepo.CreateTx(tx, entry); err != nil {
				return err
			}

			// Latest paid cost becomes the current purchase price, which in
			// turn moves the pricing floor.
			med, err := s.findMedicine(ctx, tx, item.MedicineID)
			if err != nil {
				return err
			}
			med.PurchasePrice = item.Price
			if tx == nil {
				if err := s.medicineRepo.Update(ctx, med); err != nil {
					return err
				}
			} else if err := tx.Save(med).Error; err != nil {
				return err
			}

			if _, err := s.stock.RefreshTx(tx, item.MedicineID, now); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, purchase.ID, model.PurchaseReceived)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("purchase_id", purchase.ID.String()).
		Int("items", len(purchase.Items)).
		Msg("purchase received into stock")

	return s.Get(ctx, purchase.ID)
}

func (s *purchaseService) findMedicine(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	if tx == nil {
		return s.medicineRepo.FindByID(ctx, id)
	}
	return s.medicineRepo.FindByIDTx(tx, id)
}

func (s *purchaseService) Cancel(ctx context.Context, purchaseID uuid.UUID) error {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		return errors.New("purchase not found")
	}
	if purchase.Status != model.PurchasePending {
		return fmt.Errorf("purchase already %s", purchase.Status)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, purchaseID, model.PurchaseCancelled)
	})
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("purchase not found")
	}
	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) List(ctx context.Context) ([]dto.PurchaseResponse, error) {
	purchases, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, *purchaseToResponse(&purchases[i]))
	}
	return out, nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	total := decimal.Zero
	for i := range p.Items {
		item := &p.Items[i]
		name := ""
		if item.Medicine != nil {
			name = item.Medicine.Name
		}
		total = total.Add(item.Subtotal())
		items = append(items, dto.PurchaseItemResponse{
			ID:         item.ID.String(),
			Medicine:   name,
			MedicineID: item.MedicineID.String(),
			Quantity:   item.Quantity,
			Price:      item.Price,
			Subtotal:   item.Subtotal(),
			ExpiryDate: item.ExpiryDate.Format("2006-01-02"),
		})
	}
	supplierName := ""
	if p.Supplier != nil {
		supplierName = p.Supplier.Name
	}
	amount := p.TotalAmount
	if amount.IsZero() {
		amount = total
	}
	return &dto.PurchaseResponse{
		ID:            p.ID.String(),
		Supplier:      supplierName,
		SupplierID:    p.SupplierID.String(),
		InvoiceNumber: p.InvoiceNumber,
		Status:        p.Status,
		TotalAmount:   amount,
		Notes:         p.Notes,
		Items:         items,
		Date:          p.Date.Format("2006-01-02"),
	}
}
