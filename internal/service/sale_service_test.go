package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

type saleFixture struct {
	svc       SaleService
	sales     *stubSaleRepo
	store     *stubCartStore
	meds      *stubMedicineRepo
	stock     *stubStockRepo
	customers *stubCustomerRepo
	userID    uuid.UUID
}

func buildSaleFixture() *saleFixture {
	meds := newStubMedicineRepo()
	stock := newStubStockRepo(meds)
	customers := newStubCustomerRepo()
	store := newStubCartStore()
	sales := newStubSaleRepo()
	// Checkout runs inside one transaction; mirror that in the stubs so lot
	// writes only stick once the sale row lands.
	stock.beginJournal()
	sales.onCreate = stock.commit
	stockSvc := NewStockService(stock, meds)
	return &saleFixture{
		svc:       NewSaleService(sales, store, stockSvc, meds, customers, nil),
		sales:     sales,
		store:     store,
		meds:      meds,
		stock:     stock,
		customers: customers,
		userID:    uuid.New(),
	}
}

func (f *saleFixture) cartWith(lines ...model.CartLine) {
	_ = f.store.Save(context.Background(), f.userID, &model.Cart{Lines: lines})
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := buildSaleFixture()

	_, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutHappyPath(t *testing.T) {
	f := buildSaleFixture()
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60"),
		StripsPerBox: 10, CanSellStrips: true,
	})
	f.stock.addLot(&model.StockEntry{MedicineID: med.ID, Quantity: 5, ExpirationDate: futureDate(90)})

	f.cartWith(model.CartLine{
		MedicineID: med.ID, Name: med.Name, Quantity: 2, UnitType: model.UnitBox,
		OriginalPrice: dec("100"), DiscountedPrice: dec("100"),
	})

	resp, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCard})
	require.NoError(t, err)

	assert.True(t, resp.TotalAmount.Equal(dec("200")))
	assert.Equal(t, model.PaymentCard, resp.PaymentMethod)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Panadol", resp.Items[0].Medicine)
	assert.Equal(t, 0, resp.PointsAwarded, "no customer, no points")

	// Stock was consumed and the derived cache refreshed inside the checkout.
	assert.Equal(t, 3, med.Stock)

	// The sale is persisted and completed.
	require.Len(t, f.sales.sales, 1)
	assert.True(t, f.sales.sales[0].Completed)

	// Cart is gone.
	cart, _ := f.store.Get(context.Background(), f.userID)
	assert.Empty(t, cart.Lines)
}

func TestCheckoutFrozenPricesNotRecomputed(t *testing.T) {
	f := buildSaleFixture()
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60"),
		StripsPerBox: 10, CanSellStrips: true,
	})
	f.stock.addLot(&model.StockEntry{MedicineID: med.ID, Quantity: 5, ExpirationDate: futureDate(90)})

	// The line was priced at 90 when it was added; the catalog price changed
	// afterwards — the cart price is what gets charged.
	f.cartWith(model.CartLine{
		MedicineID: med.ID, Name: med.Name, Quantity: 1, UnitType: model.UnitBox,
		OriginalPrice: dec("100"), DiscountedPrice: dec("90"),
	})
	med.Price = dec("150")

	resp, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("90")))
}

func TestCheckoutCustomerOverrideReprices(t *testing.T) {
	f := buildSaleFixture()
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60"),
		StripsPerBox: 10, CanSellStrips: true,
	})
	f.stock.addLot(&model.StockEntry{MedicineID: med.ID, Quantity: 5, ExpirationDate: futureDate(90)})
	family := f.customers.add(&model.Customer{
		Name: "Mona", Phone: "01000000001", CustomerType: model.TierFamily,
	})

	// Cart was priced without a customer; the id arrives on the checkout call.
	f.cartWith(model.CartLine{
		MedicineID: med.ID, Name: med.Name, Quantity: 2, UnitType: model.UnitBox,
		OriginalPrice: dec("100"), DiscountedPrice: dec("100"),
	})

	familyID := family.ID.String()
	resp, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{CustomerID: &familyID})
	require.NoError(t, err)

	// Repriced to the family floor: 2 × 66 = 132, points = floor(132/10).
	assert.True(t, resp.TotalAmount.Equal(dec("132")))
	assert.Equal(t, 13, resp.PointsAwarded)
	assert.Equal(t, 13, family.Points)
	require.NotNil(t, resp.Customer)
	assert.Equal(t, "Mona", *resp.Customer)
}

func TestCheckoutUnknownCustomer(t *testing.T) {
	f := buildSaleFixture()
	med := f.meds.add(&model.Medicine{Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10})
	f.stock.addLot(&model.StockEntry{MedicineID: med.ID, Quantity: 5, ExpirationDate: futureDate(90)})
	f.cartWith(model.CartLine{
		MedicineID: med.ID, Name: med.Name, Quantity: 1, UnitType: model.UnitBox,
		OriginalPrice: dec("100"), DiscountedPrice: dec("100"),
	})

	bogus := uuid.NewString()
	_, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{CustomerID: &bogus})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCheckoutFailedLineCreatesNoSale(t *testing.T) {
	f := buildSaleFixture()
	stocked := f.meds.add(&model.Medicine{
		Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60"),
		StripsPerBox: 10, CanSellStrips: true,
	})
	lot := f.stock.addLot(&model.StockEntry{MedicineID: stocked.ID, Quantity: 5, ExpirationDate: futureDate(90)})
	outOfStock := f.meds.add(&model.Medicine{
		Name: "Augmentin", Price: dec("80"), PurchasePrice: dec("50"),
		StripsPerBox: 14, CanSellStrips: true,
	})

	f.cartWith(
		model.CartLine{
			MedicineID: stocked.ID, Name: stocked.Name, Quantity: 1, UnitType: model.UnitBox,
			OriginalPrice: dec("100"), DiscountedPrice: dec("100"),
		},
		model.CartLine{
			MedicineID: outOfStock.ID, Name: outOfStock.Name, Quantity: 1, UnitType: model.UnitBox,
			OriginalPrice: dec("80"), DiscountedPrice: dec("80"),
		},
	)

	_, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAvailableStock)
	assert.Contains(t, err.Error(), "Augmentin", "the failing medicine is named")

	// No sale row, and the cart survives for the cashier to fix.
	assert.Empty(t, f.sales.sales)
	cart, _ := f.store.Get(context.Background(), f.userID)
	assert.Len(t, cart.Lines, 2)

	// The first line's draw against the Panadol lot rolled back with the
	// transaction: the lot is exactly as it was before the checkout.
	assert.Equal(t, 5, lot.Quantity)
	assert.Nil(t, lot.StripsRemaining)
	f.stock.rollback()
	avail, err := NewStockService(f.stock, f.meds).AvailableQuantity(context.Background(), stocked.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, avail, "availability is unchanged after the abort")
}

func TestCheckoutRecordsLotExpiry(t *testing.T) {
	f := buildSaleFixture()
	med := f.meds.add(&model.Medicine{
		Name: "Panadol", Price: dec("100"), PurchasePrice: dec("60"),
		StripsPerBox: 10, CanSellStrips: true,
	})
	soonest := f.stock.addLot(&model.StockEntry{MedicineID: med.ID, Quantity: 2, ExpirationDate: futureDate(15)})
	f.stock.addLot(&model.StockEntry{MedicineID: med.ID, Quantity: 9, ExpirationDate: futureDate(300)})

	f.cartWith(model.CartLine{
		MedicineID: med.ID, Name: med.Name, Quantity: 1, UnitType: model.UnitBox,
		OriginalPrice: dec("100"), DiscountedPrice: dec("100"),
	})

	resp, err := f.svc.Checkout(context.Background(), f.userID, dto.CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, soonest.ExpirationDate.Format("2006-01-02"), resp.Items[0].ExpiryDate)
}

func TestSaleDetailNotFound(t *testing.T) {
	f := buildSaleFixture()

	_, err := f.svc.Detail(context.Background(), uuid.New())
	assert.EqualError(t, err, "sale not found")
}
