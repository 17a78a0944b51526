package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

// StockService owns the dated lot ledger: additions, first-expiry-first-out
// consumption, the derived stock cache, and the maintenance sweeps.
type StockService interface {
	AddLot(ctx context.Context, req dto.AddLotRequest) (*dto.LotResponse, error)
	ListLots(ctx context.Context, medicineID uuid.UUID) ([]dto.LotResponse, error)
	AvailableQuantity(ctx context.Context, medicineID uuid.UUID) (int, error)
	Refresh(ctx context.Context, medicineID uuid.UUID) (int, error)
	Prune(ctx context.Context) (*dto.MaintenanceResponse, error)
	MergeDuplicateLots(ctx context.Context) (*dto.MaintenanceResponse, error)
	ExpiryReport(ctx context.Context, withinDays int) ([]dto.ExpiringLot, error)

	// ConsumeTx draws qty units (boxes or strips) from the medicine's lots in
	// expiry order inside the checkout transaction. Returns the expiration
	// date of the first lot drawn from.
	ConsumeTx(tx *gorm.DB, med *model.Medicine, qty int, unit string, asOf time.Time) (time.Time, error)
	// RefreshTx recomputes the derived stock cache inside a transaction and
	// returns the new value.
	RefreshTx(tx *gorm.DB, medicineID uuid.UUID, asOf time.Time) (int, error)
}

type stockService struct {
	repo         repository.StockRepository
	medicineRepo repository.MedicineRepository
}

func NewStockService(repo repository.StockRepository, medicineRepo repository.MedicineRepository) StockService {
	return &stockService{repo: repo, medicineRepo: medicineRepo}
}

// ── AddLot ────────────────────────────────────────────────────────────────────

func (s *stockService) AddLot(ctx context.Context, req dto.AddLotRequest) (*dto.LotResponse, error) {
	medID, err := uuid.Parse(req.MedicineID)
	if err != nil {
		return nil, ErrMedicineNotFound
	}
	med, err := s.medicineRepo.FindByID(ctx, medID)
	if err != nil {
		return nil, ErrMedicineNotFound
	}

	expiry, err := time.Parse("2006-01-02", req.ExpirationDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad expiration date", ErrInvalidLot)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: negative quantity", ErrInvalidLot)
	}
	// Interactive additions must be for future-dated stock. Already-expired
	// lots would silently never be consumable.
	if !expiry.After(dateOnly(time.Now())) {
		return nil, fmt.Errorf("%w: expiration date must be in the future", ErrInvalidLot)
	}

	entry := &model.StockEntry{
		MedicineID:     med.ID,
		Quantity:       req.Quantity,
		ExpirationDate: expiry,
	}

	var newStock int
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.repo.Create(ctx, entry); err != nil {
				return err
			}
		} else if err := s.repo.CreateTx(tx, entry); err != nil {
			return err
		}
		stock, err := s.RefreshTx(tx, med.ID, time.Now())
		if err != nil {
			return err
		}
		newStock = stock
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("medicine_id", med.ID.String()).
		Int("quantity", req.Quantity).
		Str("expiration", req.ExpirationDate).
		Int("stock", newStock).
		Msg("stock lot added")

	resp := lotToResponse(entry)
	return &resp, nil
}

func (s *stockService) ListLots(ctx context.Context, medicineID uuid.UUID) ([]dto.LotResponse, error) {
	entries, err := s.repo.ListByMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	lots := make([]dto.LotResponse, 0, len(entries))
	for i := range entries {
		lots = append(lots, lotToResponse(&entries[i]))
	}
	return lots, nil
}

// AvailableQuantity is the authoritative sellable box count: the sum over
// non-expired lots, computed live. The Medicine.Stock column is only a cache
// of this value.
func (s *stockService) AvailableQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	return s.repo.SumAvailable(ctx, medicineID, dateOnly(time.Now()))
}

// ── Consume ───────────────────────────────────────────────────────────────────

// ConsumeTx implements first-expiry-first-out consumption. All arithmetic is
// done in strip units so box and strip sales share one code path:
// boxes request qty×stripsPerBox strips, strip sales request qty strips.
// Lots are locked FOR UPDATE so concurrent checkouts serialize per medicine.
func (s *stockService) ConsumeTx(tx *gorm.DB, med *model.Medicine, qty int, unit string, asOf time.Time) (time.Time, error) {
	if qty <= 0 {
		return time.Time{}, ErrNoAvailableStock
	}
	ratio := med.StripsPerBox
	if ratio < 1 {
		ratio = 1
	}

	needed := qty * ratio
	if unit == model.UnitStrip {
		if !med.CanSellStrips {
			return time.Time{}, ErrStripsNotSellable
		}
		needed = qty
	}

	lots, err := s.repo.LockLotsTx(tx, med.ID, dateOnly(asOf))
	if err != nil {
		return time.Time{}, err
	}

	available := 0
	for i := range lots {
		available += lots[i].AvailableStrips(ratio)
	}
	if available < needed {
		return time.Time{}, ErrNoAvailableStock
	}

	var firstExpiry time.Time
	remaining := needed
	for i := range lots {
		if remaining == 0 {
			break
		}
		lot := &lots[i]
		lotStrips := lot.AvailableStrips(ratio)
		if lotStrips == 0 {
			continue
		}
		if firstExpiry.IsZero() {
			firstExpiry = lot.ExpirationDate
		}

		draw := remaining
		if draw > lotStrips {
			draw = lotStrips
		}
		left := lotStrips - draw
		lot.Quantity = left / ratio
		loose := left % ratio
		lot.StripsRemaining = &loose

		if err := s.repo.SaveTx(tx, lot); err != nil {
			return time.Time{}, err
		}
		remaining -= draw
	}

	return firstExpiry, nil
}

// ── Refresh ───────────────────────────────────────────────────────────────────

func (s *stockService) Refresh(ctx context.Context, medicineID uuid.UUID) (int, error) {
	var stock int
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.RefreshTx(tx, medicineID, time.Now())
		if err != nil {
			return err
		}
		stock = n
		return nil
	})
	return stock, err
}

// RefreshTx recomputes stock = sum of non-expired lot quantities and writes it
// to the medicine row. Idempotent: a second call with no lot changes is a
// no-op. Expired quantities fall out of the cache on the next refresh.
func (s *stockService) RefreshTx(tx *gorm.DB, medicineID uuid.UUID, asOf time.Time) (int, error) {
	if tx == nil {
		// Unit-test mode: stub repos answer without a live transaction.
		stock, err := s.repo.SumAvailableTx(nil, medicineID, dateOnly(asOf))
		if err != nil {
			return 0, err
		}
		return stock, s.medicineRepo.SetStockTx(nil, medicineID, stock)
	}
	stock, err := s.repo.SumAvailableTx(tx, medicineID, dateOnly(asOf))
	if err != nil {
		return 0, err
	}
	if err := s.medicineRepo.SetStockTx(tx, medicineID, stock); err != nil {
		return 0, err
	}
	return stock, nil
}

// ── Maintenance sweeps ────────────────────────────────────────────────────────

// Prune deletes fully consumed lots (zero boxes, zero loose strips). Expired
// lots with remaining quantity are kept for the expiry report.
func (s *stockService) Prune(ctx context.Context) (*dto.MaintenanceResponse, error) {
	n, err := s.repo.PruneEmpty(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("pruned", n).Msg("empty stock lots pruned")
	return &dto.MaintenanceResponse{Affected: n, Detail: "empty lots removed"}, nil
}

// MergeDuplicateLots collapses lots of the same medicine and expiration date
// into the earliest-created row, summing boxes and loose strips. Duplicates
// accumulate when the same delivery is keyed in twice.
func (s *stockService) MergeDuplicateLots(ctx context.Context) (*dto.MaintenanceResponse, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type lotKey struct {
		medicineID uuid.UUID
		expiry     string
	}
	groups := make(map[lotKey][]model.StockEntry)
	for _, e := range entries {
		k := lotKey{medicineID: e.MedicineID, expiry: e.ExpirationDate.Format("2006-01-02")}
		groups[k] = append(groups[k], e)
	}

	var merged int64
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		// ListAll orders by created_at within each medicine+expiry, so the
		// first row is the keeper.
		keeper := group[0]
		var extraIDs []uuid.UUID
		for _, e := range group[1:] {
			keeper.Quantity += e.Quantity
			if e.StripsRemaining != nil {
				if keeper.StripsRemaining == nil {
					zero := 0
					keeper.StripsRemaining = &zero
				}
				*keeper.StripsRemaining += *e.StripsRemaining
			}
			extraIDs = append(extraIDs, e.ID)
		}
		if err := s.repo.Save(ctx, &keeper); err != nil {
			return nil, err
		}
		n, err := s.repo.DeleteBatch(ctx, extraIDs)
		if err != nil {
			return nil, err
		}
		merged += n
	}

	log.Info().Int64("merged", merged).Msg("duplicate stock lots merged")
	return &dto.MaintenanceResponse{Affected: merged, Detail: "duplicate lots merged into earliest row"}, nil
}

// ExpiryReport lists lots that still hold quantity and expire within the
// given window (already-expired lots included, with negative DaysLeft).
func (s *stockService) ExpiryReport(ctx context.Context, withinDays int) ([]dto.ExpiringLot, error) {
	if withinDays < 1 {
		withinDays = 30
	}
	now := dateOnly(time.Now())
	cutoff := now.AddDate(0, 0, withinDays)

	entries, err := s.repo.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	report := make([]dto.ExpiringLot, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		name := ""
		if e.Medicine != nil {
			name = e.Medicine.Name
		}
		days := int(e.ExpirationDate.Sub(now).Hours() / 24)
		report = append(report, dto.ExpiringLot{
			MedicineID:     e.MedicineID.String(),
			Medicine:       name,
			Quantity:       e.Quantity,
			ExpirationDate: e.ExpirationDate.Format("2006-01-02"),
			DaysLeft:       days,
		})
	}
	return report, nil
}

func lotToResponse(e *model.StockEntry) dto.LotResponse {
	return dto.LotResponse{
		ID:              e.ID.String(),
		MedicineID:      e.MedicineID.String(),
		Quantity:        e.Quantity,
		StripsRemaining: e.StripsRemaining,
		ExpirationDate:  e.ExpirationDate.Format("2006-01-02"),
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
