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

type cartFixture struct {
	svc       CartService
	store     *stubCartStore
	meds      *stubMedicineRepo
	customers *stubCustomerRepo
	stock     *stubStockRepo
	userID    uuid.UUID
}

func buildCartFixture() *cartFixture {
	meds := newStubMedicineRepo()
	stock := newStubStockRepo(meds)
	customers := newStubCustomerRepo()
	store := newStubCartStore()
	stockSvc := NewStockService(stock, meds)
	return &cartFixture{
		svc:       NewCartService(store, meds, customers, stockSvc),
		store:     store,
		meds:      meds,
		customers: customers,
		stock:     stock,
		userID:    uuid.New(),
	}
}

func (f *cartFixture) addStocked(med *model.Medicine, boxes int) *model.Medicine {
	m := f.meds.add(med)
	f.stock.addLot(&model.StockEntry{MedicineID: m.ID, Quantity: boxes, ExpirationDate: futureDate(180)})
	return m
}

func TestAddLineByBarcode(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 5)

	cart, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "622100000017", Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)

	line := cart.Lines[0]
	assert.Equal(t, "Panadol", line.Medicine)
	assert.Equal(t, model.UnitBox, line.UnitType)
	assert.True(t, line.OriginalPrice.Equal(dec("100")))
	assert.True(t, line.DiscountedPrice.Equal(dec("100")))
	assert.True(t, cart.Total.Equal(dec("200")))
}

func TestAddLineUnknownBarcode(t *testing.T) {
	f := buildCartFixture()

	_, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "000000000000", Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestAddLineInsufficientStock(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 3)

	_, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "622100000017", Quantity: 2,
	})
	require.NoError(t, err)

	// 2 boxes already in the cart + 2 more > 3 available.
	_, err = f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "622100000017", Quantity: 2,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddLineStripsCountFractionalBoxes(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 1)

	// 10 strips = exactly the one available box.
	cart, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "622100000017", Quantity: 10, UnitType: model.UnitStrip,
	})
	require.NoError(t, err)
	assert.True(t, cart.Total.Equal(dec("100")))

	_, err = f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "622100000017", Quantity: 1, UnitType: model.UnitStrip,
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddLineStripNotSellable(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Insulin Pen", BarcodeNumber: "622100000024",
		Price: dec("300"), PurchasePrice: dec("200"), StripsPerBox: 1, CanSellStrips: false,
	}, 5)

	_, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{
		Barcode: "622100000024", Quantity: 1, UnitType: model.UnitStrip,
	})
	assert.ErrorIs(t, err, ErrStripsNotSellable)
}

func TestSameBarcodeMakesSeparateLines(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 10)

	_, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{Barcode: "622100000017", Quantity: 1})
	require.NoError(t, err)
	cart, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{Barcode: "622100000017", Quantity: 1})
	require.NoError(t, err)

	assert.Len(t, cart.Lines, 2, "scans are never merged")
}

func TestSetCustomerRepricesEveryLine(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 10)
	family := f.customers.add(&model.Customer{
		Name: "Mona", Phone: "01000000001", CustomerType: model.TierFamily,
	})

	_, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{Barcode: "622100000017", Quantity: 2})
	require.NoError(t, err)

	familyID := family.ID.String()
	cart, err := f.svc.SetCustomer(context.Background(), f.userID, dto.SetCartCustomerRequest{CustomerID: &familyID})
	require.NoError(t, err)

	line := cart.Lines[0]
	assert.True(t, line.OriginalPrice.Equal(dec("100")), "original price never changes")
	assert.True(t, line.DiscountedPrice.Equal(dec("66")), "family pays the cost floor")
	assert.True(t, cart.Total.Equal(dec("132")))
	assert.True(t, cart.OriginalTotal.Equal(dec("200")))

	// Detaching the customer restores base prices.
	cart, err = f.svc.SetCustomer(context.Background(), f.userID, dto.SetCartCustomerRequest{CustomerID: nil})
	require.NoError(t, err)
	assert.True(t, cart.Lines[0].DiscountedPrice.Equal(dec("100")))
	assert.Nil(t, cart.CustomerID)
}

func TestSetCustomerUnknown(t *testing.T) {
	f := buildCartFixture()
	bogus := uuid.NewString()

	_, err := f.svc.SetCustomer(context.Background(), f.userID, dto.SetCartCustomerRequest{CustomerID: &bogus})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestNewLinePricedForAttachedCustomer(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 10)
	vip := f.customers.add(&model.Customer{
		Name: "Hany", Phone: "01000000002",
		CustomerType: model.TierVIP, DiscountPercentage: dec("10"),
	})

	vipID := vip.ID.String()
	_, err := f.svc.SetCustomer(context.Background(), f.userID, dto.SetCartCustomerRequest{CustomerID: &vipID})
	require.NoError(t, err)

	cart, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{Barcode: "622100000017", Quantity: 1})
	require.NoError(t, err)
	assert.True(t, cart.Lines[0].DiscountedPrice.Equal(dec("90")))
}

func TestRemoveLine(t *testing.T) {
	f := buildCartFixture()
	f.addStocked(&model.Medicine{
		Name: "Panadol", BarcodeNumber: "622100000017",
		Price: dec("100"), PurchasePrice: dec("60"), StripsPerBox: 10, CanSellStrips: true,
	}, 10)

	_, err := f.svc.AddLine(context.Background(), f.userID, dto.AddCartLineRequest{Barcode: "622100000017", Quantity: 1})
	require.NoError(t, err)

	cart, err := f.svc.RemoveLine(context.Background(), f.userID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	_, err = f.svc.RemoveLine(context.Background(), f.userID, 0)
	assert.ErrorIs(t, err, ErrInvalidLineIndex)
	_, err = f.svc.RemoveLine(context.Background(), f.userID, -1)
	assert.ErrorIs(t, err, ErrInvalidLineIndex)
}

func TestGetEmptyCart(t *testing.T) {
	f := buildCartFixture()

	cart, err := f.svc.Get(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Total.Equal(dec("0")))
}
