package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

// CartService manages the operator's pending sale. Prices are computed at
// line-add time and recomputed in full whenever the cart's customer changes,
// so the cart a cashier sees is always priced for exactly one customer.
type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error)
	AddLine(ctx context.Context, userID uuid.UUID, req dto.AddCartLineRequest) (*dto.CartResponse, error)
	RemoveLine(ctx context.Context, userID uuid.UUID, index int) (*dto.CartResponse, error)
	SetCustomer(ctx context.Context, userID uuid.UUID, req dto.SetCartCustomerRequest) (*dto.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	store        repository.CartStore
	medicineRepo repository.MedicineRepository
	customerRepo repository.CustomerRepository
	stock        StockService
}

func NewCartService(
	store repository.CartStore,
	medicineRepo repository.MedicineRepository,
	customerRepo repository.CustomerRepository,
	stock StockService,
) CartService {
	return &cartService{store: store, medicineRepo: medicineRepo, customerRepo: customerRepo, stock: stock}
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cartToResponse(cart), nil
}

// AddLine resolves the scanned barcode, soft-checks stock, prices the line for
// the cart's current customer and appends it. Lines are never merged: the same
// barcode scanned twice makes two lines, matching the receipt the customer sees.
func (s *cartService) AddLine(ctx context.Context, userID uuid.UUID, req dto.AddCartLineRequest) (*dto.CartResponse, error) {
	med, err := s.medicineRepo.FindByBarcode(ctx, req.Barcode)
	if err != nil {
		return nil, ErrMedicineNotFound
	}

	unit := req.UnitType
	if unit == "" {
		unit = model.UnitBox
	}
	if unit == model.UnitStrip && !med.CanSellStrips {
		return nil, ErrStripsNotSellable
	}

	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Soft check: the cart total (existing lines + this one) must not exceed
	// available stock. The hard check happens again at checkout under lock.
	available, err := s.stock.AvailableQuantity(ctx, med.ID)
	if err != nil {
		return nil, err
	}
	inCart := decimal.Zero
	for i := range cart.Lines {
		if cart.Lines[i].MedicineID == med.ID {
			inCart = inCart.Add(ToBoxes(cart.Lines[i].Quantity, cart.Lines[i].UnitType, med))
		}
	}
	requested := inCart.Add(ToBoxes(req.Quantity, unit, med))
	if requested.GreaterThan(decimal.NewFromInt(int64(available))) {
		return nil, ErrInsufficientStock
	}

	customer, err := s.resolveCustomer(ctx, cart.CustomerID)
	if err != nil {
		return nil, err
	}

	cart.Lines = append(cart.Lines, model.CartLine{
		MedicineID:      med.ID,
		Name:            med.Name,
		Quantity:        req.Quantity,
		UnitType:        unit,
		OriginalPrice:   UnitPrice(med, unit),
		DiscountedPrice: PriceFor(med, unit, customer),
	})

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cartToResponse(cart), nil
}

func (s *cartService) RemoveLine(ctx context.Context, userID uuid.UUID, index int) (*dto.CartResponse, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(cart.Lines) {
		return nil, ErrInvalidLineIndex
	}
	cart.Lines = append(cart.Lines[:index], cart.Lines[index+1:]...)
	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cartToResponse(cart), nil
}

// SetCustomer retargets the cart and reprices EVERY line from scratch against
// the new customer. OriginalPrice and Quantity are untouched; only
// DiscountedPrice changes. A nil customer id restores base prices.
func (s *cartService) SetCustomer(ctx context.Context, userID uuid.UUID, req dto.SetCartCustomerRequest) (*dto.CartResponse, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, ErrCustomerNotFound
		}
		customerID = &id
	}

	customer, err := s.resolveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cart.CustomerID = customerID

	for i := range cart.Lines {
		med, err := s.medicineRepo.FindByID(ctx, cart.Lines[i].MedicineID)
		if err != nil {
			return nil, ErrMedicineNotFound
		}
		cart.Lines[i].DiscountedPrice = PriceFor(med, cart.Lines[i].UnitType, customer)
	}

	if err := s.store.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cartToResponse(cart), nil
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.store.Clear(ctx, userID)
}

func (s *cartService) resolveCustomer(ctx context.Context, id *uuid.UUID) (*model.Customer, error) {
	if id == nil {
		return nil, nil
	}
	customer, err := s.customerRepo.FindByID(ctx, *id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

func cartToResponse(cart *model.Cart) *dto.CartResponse {
	lines := make([]dto.CartLineResponse, 0, len(cart.Lines))
	original := decimal.Zero
	for i := range cart.Lines {
		l := &cart.Lines[i]
		lineOriginal := l.OriginalPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		original = original.Add(lineOriginal)
		lines = append(lines, dto.CartLineResponse{
			Medicine:        l.Name,
			MedicineID:      l.MedicineID.String(),
			Quantity:        l.Quantity,
			UnitType:        l.UnitType,
			OriginalPrice:   l.OriginalPrice,
			DiscountedPrice: l.DiscountedPrice,
			Total:           l.Total(),
		})
	}
	var customerID *string
	if cart.CustomerID != nil {
		id := cart.CustomerID.String()
		customerID = &id
	}
	return &dto.CartResponse{
		CustomerID:    customerID,
		Lines:         lines,
		OriginalTotal: original,
		Total:         cart.Total(),
	}
}
