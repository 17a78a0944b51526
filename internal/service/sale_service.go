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
	"github.com/joroshdy12596/ai-pharmacy/internal/worker"
)

type SaleService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Detail(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
}

type saleService struct {
	repo         repository.SaleRepository
	cartStore    repository.CartStore
	stock        StockService
	medicineRepo repository.MedicineRepository
	customerRepo repository.CustomerRepository
	dispatcher   *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	cartStore repository.CartStore,
	stock StockService,
	medicineRepo repository.MedicineRepository,
	customerRepo repository.CustomerRepository,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:         repo,
		cartStore:    cartStore,
		stock:        stock,
		medicineRepo: medicineRepo,
		customerRepo: customerRepo,
		dispatcher:   dispatcher,
	}
}

// ── Checkout ──────────────────────────────────────────────────────────────────
// Completes the operator's current cart as one ACID transaction:
//   1. Load cart; reject when empty
//   2. Resolve the effective customer (request overrides cart selection) and
//      reprice lines when the customer changed at the last moment
//   3. BEGIN TX: create sale + items, consume stock FEFO per line under lock,
//      refresh each touched medicine's stock cache, award loyalty points
//   4. COMMIT — any failed line rolls back the whole sale, stock untouched
//   5. Clear the cart, enqueue the receipt job (best-effort)

func (s *saleService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	cart, err := s.cartStore.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Effective customer: an explicit id on the checkout request wins over the
	// cart's selection.
	customerID := cart.CustomerID
	if req.CustomerID != nil {
		id, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, ErrCustomerNotFound
		}
		customerID = &id
	}
	var customer *model.Customer
	if customerID != nil {
		customer, err = s.customerRepo.FindByID(ctx, *customerID)
		if err != nil {
			return nil, ErrCustomerNotFound
		}
	}

	// Pre-flight: resolve medicines outside the transaction.
	type resolvedLine struct {
		med      *model.Medicine
		quantity int
		unit     string
		price    decimal.Decimal
	}
	resolved := make([]resolvedLine, 0, len(cart.Lines))
	total := decimal.Zero
	customerChanged := req.CustomerID != nil &&
		(cart.CustomerID == nil || *cart.CustomerID != *customerID)
	for i := range cart.Lines {
		line := &cart.Lines[i]
		med, err := s.medicineRepo.FindByID(ctx, line.MedicineID)
		if err != nil {
			return nil, ErrMedicineNotFound
		}
		price := line.DiscountedPrice
		if customerChanged {
			price = PriceFor(med, line.UnitType, customer)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		resolved = append(resolved, resolvedLine{
			med:      med,
			quantity: line.Quantity,
			unit:     line.UnitType,
			price:    price,
		})
	}

	payment := req.PaymentMethod
	if payment == "" {
		payment = model.PaymentCash
	}

	points := 0
	if customer != nil {
		// 1 loyalty point per 10 currency units of the charged total.
		points = int(total.Div(decimal.NewFromInt(10)).IntPart())
	}

	now := time.Now()
	var sale model.Sale
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale = model.Sale{
			UserID:        userID,
			CustomerID:    customerID,
			TotalAmount:   total,
			PaymentMethod: payment,
			Completed:     true,
		}

		for _, r := range resolved {
			expiry, err := s.stock.ConsumeTx(tx, r.med, r.quantity, r.unit, now)
			if err != nil {
				return fmt.Errorf("%s: %w", r.med.Name, err)
			}
			sale.Items = append(sale.Items, model.SaleItem{
				MedicineID: r.med.ID,
				Quantity:   r.quantity,
				UnitType:   r.unit,
				Price:      r.price,
				ExpiryDate: expiry,
			})
		}

		if err := s.repo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		for _, r := range resolved {
			if _, err := s.stock.RefreshTx(tx, r.med.ID, now); err != nil {
				return err
			}
		}

		if customer != nil && points > 0 {
			if err := s.customerRepo.AddPointsTx(tx, customer.ID, points); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.cartStore.Clear(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart after checkout")
	}

	// Receipt job is best-effort — the sale is already committed.
	if s.dispatcher != nil {
		payload := map[string]interface{}{"sale_id": sale.ID.String()}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			payload["customer_email"] = *req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	log.Info().
		Str("sale_id", sale.ID.String()).
		Str("total", total.String()).
		Int("items", len(sale.Items)).
		Int("points", points).
		Msg("checkout completed")

	resp := saleToResponse(&sale)
	resp.PointsAwarded = points
	// Enrich items with names from the resolved slice (associations are not
	// loaded on a freshly created sale).
	for i, r := range resolved {
		resp.Items[i].Medicine = r.med.Name
	}
	if customer != nil {
		name := customer.Name
		resp.Customer = &name
	}
	return resp, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, totalCount, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: totalCount,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *saleService) Detail(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sale not found")
	}
	return saleToResponse(sale), nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for i := range sale.Items {
		item := &sale.Items[i]
		name := ""
		if item.Medicine != nil {
			name = item.Medicine.Name
		}
		items = append(items, dto.SaleItemResponse{
			Medicine:   name,
			Quantity:   item.Quantity,
			UnitType:   item.UnitType,
			Price:      item.Price,
			Subtotal:   item.Subtotal(),
			ExpiryDate: item.ExpiryDate.Format("2006-01-02"),
		})
	}
	var customerName *string
	if sale.Customer != nil {
		name := sale.Customer.Name
		customerName = &name
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		Customer:      customerName,
		Items:         items,
		TotalAmount:   sale.TotalAmount,
		PaymentMethod: sale.PaymentMethod,
		CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
