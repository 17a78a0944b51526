package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

// ProfitService attributes cost and profit to completed sales and maintains
// the daily snapshot table.
//
// Two cost bases exist on purpose:
//   - current: today's purchase price, for live dashboards;
//   - historical: the purchase-order price in force on the sale date, for
//     reports that must not drift when supplier prices change later.
type ProfitService interface {
	GenerateDailySnapshot(ctx context.Context, date time.Time) (*dto.ProfitSnapshotResponse, error)
	SnapshotRange(ctx context.Context, filter dto.ReportRangeFilter) ([]dto.ProfitSnapshotResponse, error)
	MedicineProfitReport(ctx context.Context, filter dto.ReportRangeFilter) (*dto.MedicineProfitReport, error)
	InventoryValue(ctx context.Context) (*dto.InventoryValueResponse, error)
}

type profitService struct {
	saleRepo      repository.SaleRepository
	purchaseRepo  repository.PurchaseRepository
	analyticsRepo repository.AnalyticsRepository
	medicineRepo  repository.MedicineRepository
}

func NewProfitService(
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	analyticsRepo repository.AnalyticsRepository,
	medicineRepo repository.MedicineRepository,
) ProfitService {
	return &profitService{
		saleRepo:      saleRepo,
		purchaseRepo:  purchaseRepo,
		analyticsRepo: analyticsRepo,
		medicineRepo:  medicineRepo,
	}
}

// historicalUnitCost resolves the box cost that applied on saleDate: the most
// recent purchase-order price on or before that date, falling back to the
// medicine's current purchase price when no order exists.
func (s *profitService) historicalUnitCost(ctx context.Context, med *model.Medicine, saleDate time.Time) decimal.Decimal {
	item, err := s.purchaseRepo.LatestPriceBefore(ctx, med.ID, saleDate)
	if err != nil || item == nil {
		return med.PurchasePrice
	}
	return item.Price
}

// lineCost converts a sold line into its cost at the given box cost:
// strip sales cost boxCost × quantity / stripsPerBox.
func lineCost(item *model.SaleItem, med *model.Medicine, boxCost decimal.Decimal) decimal.Decimal {
	return boxCost.Mul(ToBoxes(item.Quantity, item.UnitType, med))
}

// ── Daily snapshot ────────────────────────────────────────────────────────────

// GenerateDailySnapshot fully recomputes the snapshot for one calendar date
// from the day's completed sales and upserts it by date. Running it twice
// yields the same row. Ties for top category and top medicine break
// deterministically by name.
func (s *profitService) GenerateDailySnapshot(ctx context.Context, date time.Time) (*dto.ProfitSnapshotResponse, error) {
	day := dateOnly(date)
	sales, err := s.saleRepo.ListCompletedOn(ctx, day)
	if err != nil {
		return nil, err
	}

	totalSales := decimal.Zero
	totalCost := decimal.Zero
	categoryProfit := map[string]decimal.Decimal{}
	medicineProfit := map[uuid.UUID]*medicineAggregate{}

	for i := range sales {
		sale := &sales[i]
		totalSales = totalSales.Add(sale.TotalAmount)
		for j := range sale.Items {
			item := &sale.Items[j]
			med := item.Medicine
			if med == nil {
				continue
			}
			boxCost := s.historicalUnitCost(ctx, med, day)
			cost := lineCost(item, med, boxCost)
			totalCost = totalCost.Add(cost)

			// Winners are ranked by what the line actually earned, not by
			// what it billed — a high-revenue line sold near cost must not
			// outrank a cheaper line with a fat margin.
			profit := item.Subtotal().Sub(cost)
			categoryProfit[med.Category] = categoryProfit[med.Category].Add(profit)
			agg, ok := medicineProfit[med.ID]
			if !ok {
				agg = &medicineAggregate{name: med.Name}
				medicineProfit[med.ID] = agg
			}
			agg.profit = agg.profit.Add(profit)
		}
	}

	totalProfit := totalSales.Sub(totalCost)
	margin := decimal.Zero
	if totalSales.IsPositive() {
		margin = totalProfit.Div(totalSales).Mul(decimal.NewFromInt(100)).Round(2)
	}
	avgProfit := decimal.Zero
	if len(sales) > 0 {
		avgProfit = totalProfit.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}

	topCategory := pickTopCategory(categoryProfit)
	topMedicineID, topMedicineName := pickTopMedicine(medicineProfit)

	snap := &model.ProfitAnalytics{
		Date:             day,
		TotalSales:       totalSales,
		TotalCost:        totalCost,
		TotalProfit:      totalProfit,
		ProfitMargin:     margin,
		NumberOfSales:    len(sales),
		AvgProfitPerSale: avgProfit,
		TopCategory:      topCategory,
		TopMedicineID:    topMedicineID,
	}
	if err := s.analyticsRepo.UpsertByDate(ctx, snap); err != nil {
		return nil, err
	}

	log.Info().
		Str("date", day.Format("2006-01-02")).
		Int("sales", len(sales)).
		Str("profit", totalProfit.String()).
		Msg("daily profit snapshot generated")

	resp := snapshotToResponse(snap)
	if topMedicineName != "" {
		resp.TopMedicine = &topMedicineName
	}
	return resp, nil
}

type medicineAggregate struct {
	name   string
	profit decimal.Decimal
}

// pickTopCategory returns the category label with the highest summed profit,
// breaking ties lexicographically by label so re-runs never flip the answer.
func pickTopCategory(profit map[string]decimal.Decimal) string {
	best := ""
	bestLabel := ""
	var bestProfit decimal.Decimal
	for code, p := range profit {
		label := model.CategoryLabel(code)
		if best == "" || p.GreaterThan(bestProfit) ||
			(p.Equal(bestProfit) && label < bestLabel) {
			best = code
			bestLabel = label
			bestProfit = p
		}
	}
	return bestLabel
}

func pickTopMedicine(profit map[uuid.UUID]*medicineAggregate) (*uuid.UUID, string) {
	var bestID *uuid.UUID
	bestName := ""
	var bestProfit decimal.Decimal
	for id, agg := range profit {
		if bestID == nil || agg.profit.GreaterThan(bestProfit) ||
			(agg.profit.Equal(bestProfit) && agg.name < bestName) {
			idCopy := id
			bestID = &idCopy
			bestName = agg.name
			bestProfit = agg.profit
		}
	}
	return bestID, bestName
}

// ── Range reports ─────────────────────────────────────────────────────────────

func (s *profitService) SnapshotRange(ctx context.Context, filter dto.ReportRangeFilter) ([]dto.ProfitSnapshotResponse, error) {
	from, to, err := parseRange(filter)
	if err != nil {
		return nil, err
	}
	snaps, err := s.analyticsRepo.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfitSnapshotResponse, 0, len(snaps))
	for i := range snaps {
		resp := snapshotToResponse(&snaps[i])
		if snaps[i].TopMedicine != nil {
			name := snaps[i].TopMedicine.Name
			resp.TopMedicine = &name
		}
		out = append(out, *resp)
	}
	return out, nil
}

// MedicineProfitReport aggregates historical-cost profit per medicine over a
// date range and returns the best and worst performers.
func (s *profitService) MedicineProfitReport(ctx context.Context, filter dto.ReportRangeFilter) (*dto.MedicineProfitReport, error) {
	var fromPtr, toPtr *time.Time
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, errors.New("bad 'from' date")
		}
		fromPtr = &from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, errors.New("bad 'to' date")
		}
		toPtr = &to
	}

	sales, err := s.saleRepo.ListCompletedBetween(ctx, fromPtr, toPtr)
	if err != nil {
		return nil, err
	}

	type row struct {
		name   string
		sold   decimal.Decimal
		profit decimal.Decimal
		count  int
	}
	rows := map[uuid.UUID]*row{}
	for i := range sales {
		sale := &sales[i]
		saleDate := dateOnly(sale.CreatedAt)
		for j := range sale.Items {
			item := &sale.Items[j]
			med := item.Medicine
			if med == nil {
				continue
			}
			boxCost := s.historicalUnitCost(ctx, med, saleDate)
			revenue := item.Subtotal()
			cost := lineCost(item, med, boxCost)

			r, ok := rows[med.ID]
			if !ok {
				r = &row{name: med.Name}
				rows[med.ID] = r
			}
			r.sold = r.sold.Add(revenue)
			r.profit = r.profit.Add(revenue.Sub(cost))
			r.count++
		}
	}

	all := make([]dto.MedicineProfitRow, 0, len(rows))
	for _, r := range rows {
		all = append(all, dto.MedicineProfitRow{
			Medicine:  r.name,
			Sold:      r.sold,
			Profit:    r.profit,
			ItemCount: r.count,
		})
	}

	top := filter.Top
	if top < 1 {
		top = 20
	}

	positive := make([]dto.MedicineProfitRow, len(all))
	copy(positive, all)
	sort.Slice(positive, func(i, j int) bool {
		if !positive[i].Profit.Equal(positive[j].Profit) {
			return positive[i].Profit.GreaterThan(positive[j].Profit)
		}
		return positive[i].Medicine < positive[j].Medicine
	})
	if len(positive) > top {
		positive = positive[:top]
	}

	negative := make([]dto.MedicineProfitRow, 0)
	for _, r := range all {
		if r.Profit.IsNegative() {
			negative = append(negative, r)
		}
	}
	sort.Slice(negative, func(i, j int) bool {
		if !negative[i].Profit.Equal(negative[j].Profit) {
			return negative[i].Profit.LessThan(negative[j].Profit)
		}
		return negative[i].Medicine < negative[j].Medicine
	})
	if len(negative) > top {
		negative = negative[:top]
	}

	return &dto.MedicineProfitReport{TopPositive: positive, TopNegative: negative}, nil
}

// InventoryValue values the current cached stock at purchase cost and at list
// price across all active medicines.
func (s *profitService) InventoryValue(ctx context.Context) (*dto.InventoryValueResponse, error) {
	medicines, err := s.medicineRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	costValue := decimal.Zero
	listValue := decimal.Zero
	for i := range medicines {
		med := &medicines[i]
		qty := decimal.NewFromInt(int64(med.Stock))
		costValue = costValue.Add(med.PurchasePrice.Mul(qty))
		listValue = listValue.Add(med.Price.Mul(qty))
	}
	return &dto.InventoryValueResponse{
		TotalCostValue: costValue,
		TotalListValue: listValue,
		MedicineCount:  len(medicines),
	}, nil
}

func parseRange(filter dto.ReportRangeFilter) (time.Time, time.Time, error) {
	to := dateOnly(time.Now())
	from := to.AddDate(0, 0, -30)
	if filter.From != "" {
		parsed, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("bad 'from' date")
		}
		from = parsed
	}
	if filter.To != "" {
		parsed, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("bad 'to' date")
		}
		to = parsed
	}
	return from, to, nil
}

func snapshotToResponse(snap *model.ProfitAnalytics) *dto.ProfitSnapshotResponse {
	return &dto.ProfitSnapshotResponse{
		Date:             snap.Date.Format("2006-01-02"),
		TotalSales:       snap.TotalSales,
		TotalCost:        snap.TotalCost,
		TotalProfit:      snap.TotalProfit,
		ProfitMargin:     snap.ProfitMargin,
		NumberOfSales:    snap.NumberOfSales,
		AvgProfitPerSale: snap.AvgProfitPerSale,
		TopCategory:      snap.TopCategory,
	}
}
