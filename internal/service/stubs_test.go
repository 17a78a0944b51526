package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
	"github.com/joroshdy12596/ai-pharmacy/internal/repository"
)

// In-memory stubs for unit tests. Transactions are exercised in nil-tx mode:
// runTx sees a nil *gorm.DB and calls the function directly, so the stubs
// answer both the ctx and the Tx variants without a database.

// ── Medicine repository ───────────────────────────────────────────────────────

type stubMedicineRepo struct {
	meds      map[uuid.UUID]*model.Medicine
	byBarcode map[string]uuid.UUID
}

func newStubMedicineRepo() *stubMedicineRepo {
	return &stubMedicineRepo{
		meds:      make(map[uuid.UUID]*model.Medicine),
		byBarcode: make(map[string]uuid.UUID),
	}
}

func (r *stubMedicineRepo) add(m *model.Medicine) *model.Medicine {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.Active = true
	r.meds[m.ID] = m
	if m.BarcodeNumber != "" {
		r.byBarcode[m.BarcodeNumber] = m.ID
	}
	return m
}

func (r *stubMedicineRepo) Create(_ context.Context, m *model.Medicine) error {
	r.add(m)
	return nil
}

func (r *stubMedicineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	m, ok := r.meds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMedicineRepo) FindByBarcode(_ context.Context, barcode string) (*model.Medicine, error) {
	id, ok := r.byBarcode[barcode]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.meds[id], nil
}

func (r *stubMedicineRepo) BarcodeExists(_ context.Context, barcode string) (bool, error) {
	_, ok := r.byBarcode[barcode]
	return ok, nil
}

func (r *stubMedicineRepo) List(_ context.Context, _ dto.MedicineFilter) ([]model.Medicine, int64, error) {
	out := make([]model.Medicine, 0, len(r.meds))
	for _, m := range r.meds {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMedicineRepo) ListLowStock(_ context.Context) ([]model.Medicine, error) {
	var out []model.Medicine
	for _, m := range r.meds {
		if m.Active && m.Stock <= m.ReorderLevel {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicineRepo) ListActive(_ context.Context) ([]model.Medicine, error) {
	var out []model.Medicine
	for _, m := range r.meds {
		if m.Active {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicineRepo) Update(_ context.Context, m *model.Medicine) error {
	r.meds[m.ID] = m
	return nil
}

func (r *stubMedicineRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	m, ok := r.meds[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Active = false
	return nil
}

func (r *stubMedicineRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	m, ok := r.meds[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Active = true
	return nil
}

func (r *stubMedicineRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubMedicineRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	m, ok := r.meds[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Stock = stock
	return nil
}

func (r *stubMedicineRepo) DB() *gorm.DB { return nil }

var _ repository.MedicineRepository = (*stubMedicineRepo)(nil)

// ── Stock repository ──────────────────────────────────────────────────────────

type stubStockRepo struct {
	lots []*model.StockEntry
	meds *stubMedicineRepo // for preloading Medicine on report queries
	seq  int

	// journal, when enabled, mirrors transaction visibility: SaveTx writes
	// land in a private overlay that readers in the same "transaction" see,
	// becomes durable only on commit and vanishes on rollback. Checkout
	// fixtures enable it so the all-or-nothing guarantee is observable
	// without a database.
	journal map[uuid.UUID]*model.StockEntry
}

func newStubStockRepo(meds *stubMedicineRepo) *stubStockRepo {
	return &stubStockRepo{meds: meds}
}

func (r *stubStockRepo) beginJournal() {
	r.journal = map[uuid.UUID]*model.StockEntry{}
}

// commit makes every journaled write durable, like a COMMIT would.
func (r *stubStockRepo) commit() {
	for id, e := range r.journal {
		for i := range r.lots {
			if r.lots[i].ID == id {
				r.lots[i] = e
			}
		}
	}
	r.journal = map[uuid.UUID]*model.StockEntry{}
}

// rollback drops the journaled writes, like an aborted transaction.
func (r *stubStockRepo) rollback() {
	r.journal = map[uuid.UUID]*model.StockEntry{}
}

// view returns the in-transaction state of a lot: the journaled version if
// one exists, the durable row otherwise.
func (r *stubStockRepo) view(e *model.StockEntry) *model.StockEntry {
	if r.journal != nil {
		if j, ok := r.journal[e.ID]; ok {
			return j
		}
	}
	return e
}

func (r *stubStockRepo) addLot(e *model.StockEntry) *model.StockEntry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		r.seq++
		e.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Minute)
	}
	r.lots = append(r.lots, e)
	return e
}

func (r *stubStockRepo) fefo(lots []*model.StockEntry) {
	sort.SliceStable(lots, func(i, j int) bool {
		if !lots[i].ExpirationDate.Equal(lots[j].ExpirationDate) {
			return lots[i].ExpirationDate.Before(lots[j].ExpirationDate)
		}
		return lots[i].CreatedAt.Before(lots[j].CreatedAt)
	})
}

func (r *stubStockRepo) Create(_ context.Context, e *model.StockEntry) error {
	r.addLot(e)
	return nil
}

func (r *stubStockRepo) CreateTx(_ *gorm.DB, e *model.StockEntry) error {
	r.addLot(e)
	return nil
}

func (r *stubStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockEntry, error) {
	for _, e := range r.lots {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubStockRepo) ListByMedicine(_ context.Context, medicineID uuid.UUID) ([]model.StockEntry, error) {
	var matched []*model.StockEntry
	for _, e := range r.lots {
		if e.MedicineID == medicineID {
			matched = append(matched, e)
		}
	}
	r.fefo(matched)
	out := make([]model.StockEntry, 0, len(matched))
	for _, e := range matched {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubStockRepo) ListAll(_ context.Context) ([]model.StockEntry, error) {
	all := make([]*model.StockEntry, len(r.lots))
	copy(all, r.lots)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].MedicineID != all[j].MedicineID {
			return all[i].MedicineID.String() < all[j].MedicineID.String()
		}
		if !all[i].ExpirationDate.Equal(all[j].ExpirationDate) {
			return all[i].ExpirationDate.Before(all[j].ExpirationDate)
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	out := make([]model.StockEntry, 0, len(all))
	for _, e := range all {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubStockRepo) ListExpiringBefore(_ context.Context, cutoff time.Time) ([]model.StockEntry, error) {
	var matched []*model.StockEntry
	for _, e := range r.lots {
		if e.Quantity > 0 && e.ExpirationDate.Before(cutoff) {
			matched = append(matched, e)
		}
	}
	r.fefo(matched)
	out := make([]model.StockEntry, 0, len(matched))
	for _, e := range matched {
		copied := *e
		if r.meds != nil {
			copied.Medicine = r.meds.meds[e.MedicineID]
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *stubStockRepo) Save(_ context.Context, e *model.StockEntry) error {
	return r.SaveTx(nil, e)
}

func (r *stubStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range r.lots {
		if e.ID == id {
			r.lots = append(r.lots[:i], r.lots[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubStockRepo) DeleteBatch(_ context.Context, ids []uuid.UUID) (int64, error) {
	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []*model.StockEntry
	var deleted int64
	for _, e := range r.lots {
		if drop[e.ID] {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.lots = kept
	return deleted, nil
}

func (r *stubStockRepo) SumAvailable(_ context.Context, medicineID uuid.UUID, asOf time.Time) (int, error) {
	return r.SumAvailableTx(nil, medicineID, asOf)
}

func (r *stubStockRepo) SumAvailableTx(_ *gorm.DB, medicineID uuid.UUID, asOf time.Time) (int, error) {
	sum := 0
	for _, e := range r.lots {
		if e.MedicineID == medicineID && !e.ExpirationDate.Before(asOf) {
			sum += r.view(e).Quantity
		}
	}
	return sum, nil
}

func (r *stubStockRepo) LockLotsTx(_ *gorm.DB, medicineID uuid.UUID, asOf time.Time) ([]model.StockEntry, error) {
	var matched []*model.StockEntry
	for _, e := range r.lots {
		if e.MedicineID == medicineID && !e.ExpirationDate.Before(asOf) {
			matched = append(matched, r.view(e))
		}
	}
	r.fefo(matched)
	out := make([]model.StockEntry, 0, len(matched))
	for _, e := range matched {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubStockRepo) SaveTx(_ *gorm.DB, e *model.StockEntry) error {
	for i := range r.lots {
		if r.lots[i].ID == e.ID {
			copied := *e
			if r.journal != nil {
				r.journal[e.ID] = &copied
			} else {
				r.lots[i] = &copied
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubStockRepo) PruneEmpty(_ context.Context) (int64, error) {
	var kept []*model.StockEntry
	var pruned int64
	for _, e := range r.lots {
		empty := e.Quantity == 0 && (e.StripsRemaining == nil || *e.StripsRemaining == 0)
		if empty {
			pruned++
			continue
		}
		kept = append(kept, e)
	}
	r.lots = kept
	return pruned, nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Customer repository ───────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) add(c *model.Customer) *model.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Active = true
	r.customers[c.ID] = c
	return c
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	r.add(c)
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) Search(_ context.Context, _ string, _ int) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	return r.Search(context.Background(), "", 0)
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Active = false
	return nil
}

func (r *stubCustomerRepo) AddPointsTx(_ *gorm.DB, id uuid.UUID, points int) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Points += points
	return nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Sale repository ───────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales []*model.Sale

	// onCreate fires when the sale row is written — the last write of a
	// checkout transaction — so fixtures can treat it as the commit point.
	onCreate func()
}

func newStubSaleRepo() *stubSaleRepo { return &stubSaleRepo{} }

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if r.onCreate != nil {
		r.onCreate()
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if s.Completed {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) ListCompletedOn(_ context.Context, date time.Time) ([]model.Sale, error) {
	day := dateOnly(date)
	var out []model.Sale
	for _, s := range r.sales {
		if s.Completed && dateOnly(s.CreatedAt).Equal(day) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) ListCompletedBetween(_ context.Context, from, to *time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if !s.Completed {
			continue
		}
		if from != nil && s.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && s.CreatedAt.After(*to) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Purchase repository ───────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uuid.UUID]*model.Purchase)}
}

func (r *stubPurchaseRepo) Create(_ context.Context, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) List(_ context.Context) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPurchaseRepo) AddItem(_ context.Context, item *model.PurchaseItem) error {
	p, ok := r.purchases[item.PurchaseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	p.Items = append(p.Items, *item)
	return nil
}

func (r *stubPurchaseRepo) UpdateTotal(_ context.Context, id uuid.UUID, total interface{}) error {
	p, ok := r.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if d, ok := total.(decimal.Decimal); ok {
		p.TotalAmount = d
	}
	return nil
}

func (r *stubPurchaseRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	p, ok := r.purchases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

func (r *stubPurchaseRepo) LatestPriceBefore(_ context.Context, medicineID uuid.UUID, date time.Time) (*model.PurchaseItem, error) {
	cutoff := dateOnly(date)
	var best *model.PurchaseItem
	var bestDate time.Time
	for _, p := range r.purchases {
		pDate := dateOnly(p.Date)
		if pDate.After(cutoff) {
			continue
		}
		for i := range p.Items {
			if p.Items[i].MedicineID != medicineID {
				continue
			}
			if best == nil || pDate.After(bestDate) {
				best = &p.Items[i]
				bestDate = pDate
			}
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Analytics repository ──────────────────────────────────────────────────────

type stubAnalyticsRepo struct {
	byDate map[string]*model.ProfitAnalytics
}

func newStubAnalyticsRepo() *stubAnalyticsRepo {
	return &stubAnalyticsRepo{byDate: make(map[string]*model.ProfitAnalytics)}
}

func (r *stubAnalyticsRepo) UpsertByDate(_ context.Context, snap *model.ProfitAnalytics) error {
	key := snap.Date.Format("2006-01-02")
	if existing, ok := r.byDate[key]; ok {
		snap.ID = existing.ID
	} else if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	copied := *snap
	r.byDate[key] = &copied
	return nil
}

func (r *stubAnalyticsRepo) FindByDate(_ context.Context, date time.Time) (*model.ProfitAnalytics, error) {
	snap, ok := r.byDate[dateOnly(date).Format("2006-01-02")]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return snap, nil
}

func (r *stubAnalyticsRepo) ListRange(_ context.Context, from, to time.Time) ([]model.ProfitAnalytics, error) {
	var out []model.ProfitAnalytics
	for _, snap := range r.byDate {
		if snap.Date.Before(from) || snap.Date.After(to) {
			continue
		}
		out = append(out, *snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *stubAnalyticsRepo) DB() *gorm.DB { return nil }

var _ repository.AnalyticsRepository = (*stubAnalyticsRepo)(nil)

// ── Cart store ────────────────────────────────────────────────────────────────

type stubCartStore struct {
	carts map[uuid.UUID]*model.Cart
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[uuid.UUID]*model.Cart)}
}

func (s *stubCartStore) Get(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		return &model.Cart{Lines: []model.CartLine{}}, nil
	}
	copied := *cart
	copied.Lines = append([]model.CartLine(nil), cart.Lines...)
	return &copied, nil
}

func (s *stubCartStore) Save(_ context.Context, userID uuid.UUID, cart *model.Cart) error {
	copied := *cart
	copied.Lines = append([]model.CartLine(nil), cart.Lines...)
	s.carts[userID] = &copied
	return nil
}

func (s *stubCartStore) Clear(_ context.Context, userID uuid.UUID) error {
	delete(s.carts, userID)
	return nil
}

var _ repository.CartStore = (*stubCartStore)(nil)

// errCartStore fails every read, for exercising store error paths.
type errCartStore struct{}

func (errCartStore) Get(context.Context, uuid.UUID) (*model.Cart, error) {
	return nil, errors.New("redis down")
}
func (errCartStore) Save(context.Context, uuid.UUID, *model.Cart) error {
	return errors.New("redis down")
}
func (errCartStore) Clear(context.Context, uuid.UUID) error { return errors.New("redis down") }

var _ repository.CartStore = errCartStore{}
