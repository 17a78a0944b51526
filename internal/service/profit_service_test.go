package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

type profitFixture struct {
	svc       ProfitService
	sales     *stubSaleRepo
	purchases *stubPurchaseRepo
	meds      *stubMedicineRepo
	analytics *stubAnalyticsRepo
}

func buildProfitFixture() *profitFixture {
	sales := newStubSaleRepo()
	purchases := newStubPurchaseRepo()
	meds := newStubMedicineRepo()
	analytics := newStubAnalyticsRepo()
	return &profitFixture{
		svc:       NewProfitService(sales, purchases, analytics, meds),
		sales:     sales,
		purchases: purchases,
		meds:      meds,
		analytics: analytics,
	}
}

// completedSale stores a completed sale with items whose Medicine association
// is preloaded, the shape the snapshot recompute reads.
func (f *profitFixture) completedSale(day time.Time, items ...model.SaleItem) *model.Sale {
	total := dec("0")
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}
	sale := &model.Sale{
		UserID:      uuid.New(),
		TotalAmount: total,
		Completed:   true,
		CreatedAt:   day.Add(10 * time.Hour),
		Items:       items,
	}
	_ = f.sales.Create(context.Background(), nil, sale)
	return sale
}

func (f *profitFixture) historicalPrice(med *model.Medicine, day time.Time, price string) {
	p := &model.Purchase{
		SupplierID:  uuid.New(),
		Status:      model.PurchaseReceived,
		CreatedByID: uuid.New(),
		Date:        day,
	}
	_ = f.purchases.Create(context.Background(), p)
	_ = f.purchases.AddItem(context.Background(), &model.PurchaseItem{
		PurchaseID: p.ID,
		MedicineID: med.ID,
		Quantity:   10,
		Price:      dec(price),
		ExpiryDate: day.AddDate(2, 0, 0),
	})
}

func TestSnapshotUsesHistoricalCost(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Category: model.CategoryOTC,
		Price: dec("100"), PurchasePrice: dec("90"), StripsPerBox: 10,
	})
	// Cost in force on the sale date was 50, not the current 90.
	f.historicalPrice(med, day.AddDate(0, 0, -7), "50")
	// A later price change must not bleed into the past.
	f.historicalPrice(med, day.AddDate(0, 0, 3), "90")

	f.completedSale(day, model.SaleItem{
		MedicineID: med.ID, Medicine: med, Quantity: 2,
		UnitType: model.UnitBox, Price: dec("100"),
	})

	snap, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)

	assert.True(t, snap.TotalSales.Equal(dec("200")))
	assert.True(t, snap.TotalCost.Equal(dec("100")), "2 boxes at the historical 50")
	assert.True(t, snap.TotalProfit.Equal(dec("100")))
	assert.True(t, snap.ProfitMargin.Equal(dec("50")))
	assert.Equal(t, 1, snap.NumberOfSales)
}

func TestSnapshotFallsBackToCurrentCost(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	med := f.meds.add(&model.Medicine{
		Name: "Augmentin", Category: model.CategoryPrescription,
		Price: dec("80"), PurchasePrice: dec("60"), StripsPerBox: 14,
	})

	f.completedSale(day, model.SaleItem{
		MedicineID: med.ID, Medicine: med, Quantity: 1,
		UnitType: model.UnitBox, Price: dec("80"),
	})

	snap, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)
	assert.True(t, snap.TotalCost.Equal(dec("60")), "no purchase history → current purchase price")
}

func TestSnapshotStripCostScaledToBoxes(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Category: model.CategoryOTC,
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	})

	// 5 strips at 10 each; cost = 60 × 5/10 = 30.
	f.completedSale(day, model.SaleItem{
		MedicineID: med.ID, Medicine: med, Quantity: 5,
		UnitType: model.UnitStrip, Price: dec("10"),
	})

	snap, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)
	assert.True(t, snap.TotalSales.Equal(dec("50")))
	assert.True(t, snap.TotalCost.Equal(dec("30")))
}

func TestSnapshotIdempotentUpsert(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Category: model.CategoryOTC,
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10,
	})
	f.completedSale(day, model.SaleItem{
		MedicineID: med.ID, Medicine: med, Quantity: 1,
		UnitType: model.UnitBox, Price: dec("100"),
	})

	first, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)
	second, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.analytics.byDate, 1, "one row per date, replaced not duplicated")
}

func TestSnapshotTieBreaksAreDeterministic(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	// Equal profit in Cosmetics and Supplements; equal profit across two
	// medicines. Re-runs must never flip the winners.
	cosmetic := f.meds.add(&model.Medicine{
		Name: "Zinc Cream", Category: model.CategoryCosmetic,
		Price: dec("50"), PurchasePrice: dec("20"), StripsPerBox: 1,
	})
	supplement := f.meds.add(&model.Medicine{
		Name: "Vitamin C", Category: model.CategorySupplement,
		Price: dec("50"), PurchasePrice: dec("20"), StripsPerBox: 1,
	})

	f.completedSale(day,
		model.SaleItem{MedicineID: cosmetic.ID, Medicine: cosmetic, Quantity: 1, UnitType: model.UnitBox, Price: dec("50")},
		model.SaleItem{MedicineID: supplement.ID, Medicine: supplement, Quantity: 1, UnitType: model.UnitBox, Price: dec("50")},
	)

	for i := 0; i < 5; i++ {
		snap, err := f.svc.GenerateDailySnapshot(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, "Cosmetics", snap.TopCategory, "lexicographically first label wins ties")
		require.NotNil(t, snap.TopMedicine)
		assert.Equal(t, "Vitamin C", *snap.TopMedicine, "lexicographically first name wins ties")
	}
}

func TestSnapshotRanksWinnersByProfit(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	// Bills 100 but earns only 10.
	highRevenue := f.meds.add(&model.Medicine{
		Name: "Panadol", Category: model.CategoryOTC,
		Price: dec("100"), PurchasePrice: dec("90"), StripsPerBox: 1,
	})
	// Bills 50 but earns 40 — the actual winner.
	highProfit := f.meds.add(&model.Medicine{
		Name: "Vitamin C", Category: model.CategorySupplement,
		Price: dec("50"), PurchasePrice: dec("10"), StripsPerBox: 1,
	})

	f.completedSale(day,
		model.SaleItem{MedicineID: highRevenue.ID, Medicine: highRevenue, Quantity: 1, UnitType: model.UnitBox, Price: dec("100")},
		model.SaleItem{MedicineID: highProfit.ID, Medicine: highProfit, Quantity: 1, UnitType: model.UnitBox, Price: dec("50")},
	)

	snap, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)

	assert.True(t, snap.TotalSales.Equal(dec("150")))
	assert.True(t, snap.TotalProfit.Equal(dec("50")))
	assert.Equal(t, "Supplements", snap.TopCategory, "earned 40 vs 10, despite half the revenue")
	require.NotNil(t, snap.TopMedicine)
	assert.Equal(t, "Vitamin C", *snap.TopMedicine)
}

func TestSnapshotEmptyDay(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	snap, err := f.svc.GenerateDailySnapshot(context.Background(), day)
	require.NoError(t, err)
	assert.True(t, snap.TotalSales.Equal(dec("0")))
	assert.True(t, snap.ProfitMargin.Equal(dec("0")))
	assert.Equal(t, 0, snap.NumberOfSales)
	assert.Nil(t, snap.TopMedicine)
}

func TestMedicineProfitReportSplitsWinnersAndLosers(t *testing.T) {
	f := buildProfitFixture()
	day := dateOnly(time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))
	winner := f.meds.add(&model.Medicine{
		Name: "Panadol", Category: model.CategoryOTC,
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10,
	})
	// Sold below cost — a pricing mistake the report must surface.
	loser := f.meds.add(&model.Medicine{
		Name: "Augmentin", Category: model.CategoryPrescription,
		Price: dec("80"), PurchasePrice: dec("70"), StripsPerBox: 14,
	})

	f.completedSale(day,
		model.SaleItem{MedicineID: winner.ID, Medicine: winner, Quantity: 2, UnitType: model.UnitBox, Price: dec("100")},
		model.SaleItem{MedicineID: loser.ID, Medicine: loser, Quantity: 1, UnitType: model.UnitBox, Price: dec("55")},
	)

	report, err := f.svc.MedicineProfitReport(context.Background(), dto.ReportRangeFilter{})
	require.NoError(t, err)

	require.NotEmpty(t, report.TopPositive)
	assert.Equal(t, "Panadol", report.TopPositive[0].Medicine)
	assert.True(t, report.TopPositive[0].Profit.Equal(dec("80")))

	require.Len(t, report.TopNegative, 1)
	assert.Equal(t, "Augmentin", report.TopNegative[0].Medicine)
	assert.True(t, report.TopNegative[0].Profit.Equal(dec("-15")))
}

func TestInventoryValue(t *testing.T) {
	f := buildProfitFixture()
	m1 := f.meds.add(&model.Medicine{Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60")})
	m2 := f.meds.add(&model.Medicine{Name: "Augmentin", Price: dec("80"), PurchasePrice: dec("50")})
	m1.Stock = 10
	m2.Stock = 4

	resp, err := f.svc.InventoryValue(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.TotalCostValue.Equal(dec("800")))  // 10×60 + 4×50
	assert.True(t, resp.TotalListValue.Equal(dec("1320"))) // 10×100 + 4×80
	assert.Equal(t, 2, resp.MedicineCount)
}

func TestSnapshotRangeRejectsBadDates(t *testing.T) {
	f := buildProfitFixture()

	_, err := f.svc.SnapshotRange(context.Background(), dto.ReportRangeFilter{From: "not-a-date"})
	assert.Error(t, err)
}
