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

type purchaseFixture struct {
	svc       PurchaseService
	purchases *stubPurchaseRepo
	meds      *stubMedicineRepo
	stock     *stubStockRepo
	userID    uuid.UUID
}

func buildPurchaseFixture() *purchaseFixture {
	meds := newStubMedicineRepo()
	stock := newStubStockRepo(meds)
	purchases := newStubPurchaseRepo()
	stockSvc := NewStockService(stock, meds)
	return &purchaseFixture{
		svc:       NewPurchaseService(purchases, meds, stock, stockSvc),
		purchases: purchases,
		meds:      meds,
		stock:     stock,
		userID:    uuid.New(),
	}
}

func (f *purchaseFixture) pendingOrder(t *testing.T) *dto.PurchaseResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.userID, dto.CreatePurchaseRequest{
		SupplierID:    uuid.NewString(),
		InvoiceNumber: "INV-1001",
	})
	require.NoError(t, err)
	return resp
}

func TestCreatePurchaseStartsPending(t *testing.T) {
	f := buildPurchaseFixture()

	resp := f.pendingOrder(t)
	assert.Equal(t, model.PurchasePending, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(dec("0")))
}

func TestAddItemAccumulatesTotal(t *testing.T) {
	f := buildPurchaseFixture()
	med := f.meds.add(&model.Medicine{Name: "Panadol", PurchasePrice: dec("60")})
	order := f.pendingOrder(t)
	orderID := uuid.MustParse(order.ID)

	resp, err := f.svc.AddItem(context.Background(), orderID, dto.AddPurchaseItemRequest{
		MedicineID: med.ID.String(),
		Quantity:   10,
		Price:      dec("55"),
		ExpiryDate: futureDate(365).Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("550")))

	resp, err = f.svc.AddItem(context.Background(), orderID, dto.AddPurchaseItemRequest{
		MedicineID: med.ID.String(),
		Quantity:   2,
		Price:      dec("50"),
		ExpiryDate: futureDate(400).Format("2006-01-02"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(dec("650")))
	assert.Len(t, resp.Items, 2)
}

func TestAddItemUnknownMedicine(t *testing.T) {
	f := buildPurchaseFixture()
	order := f.pendingOrder(t)

	_, err := f.svc.AddItem(context.Background(), uuid.MustParse(order.ID), dto.AddPurchaseItemRequest{
		MedicineID: uuid.NewString(),
		Quantity:   1,
		Price:      dec("10"),
		ExpiryDate: futureDate(365).Format("2006-01-02"),
	})
	assert.ErrorIs(t, err, ErrMedicineNotFound)
}

func TestReceiveBooksLotsAndMovesCostFloor(t *testing.T) {
	f := buildPurchaseFixture()
	med := f.meds.add(&model.Medicine{Name: "Panadol", PurchasePrice: dec("60"), StripsPerBox: 10})
	order := f.pendingOrder(t)
	orderID := uuid.MustParse(order.ID)

	_, err := f.svc.AddItem(context.Background(), orderID, dto.AddPurchaseItemRequest{
		MedicineID: med.ID.String(),
		Quantity:   8,
		Price:      dec("70"),
		ExpiryDate: futureDate(365).Format("2006-01-02"),
	})
	require.NoError(t, err)

	resp, err := f.svc.Receive(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseReceived, resp.Status)

	// A dated lot exists and the stock cache reflects it.
	lots, err := f.stock.ListByMedicine(context.Background(), med.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, 8, lots[0].Quantity)
	assert.Equal(t, 8, med.Stock)

	// The paid cost became the current purchase price (and with it the
	// minimum-price floor).
	assert.True(t, med.PurchasePrice.Equal(dec("70")))
}

func TestReceiveRejectsEmptyOrder(t *testing.T) {
	f := buildPurchaseFixture()
	order := f.pendingOrder(t)

	_, err := f.svc.Receive(context.Background(), uuid.MustParse(order.ID))
	assert.EqualError(t, err, "purchase has no items")
}

func TestReceiveOnlyOnce(t *testing.T) {
	f := buildPurchaseFixture()
	med := f.meds.add(&model.Medicine{Name: "Panadol", PurchasePrice: dec("60")})
	order := f.pendingOrder(t)
	orderID := uuid.MustParse(order.ID)

	_, err := f.svc.AddItem(context.Background(), orderID, dto.AddPurchaseItemRequest{
		MedicineID: med.ID.String(),
		Quantity:   1,
		Price:      dec("60"),
		ExpiryDate: futureDate(365).Format("2006-01-02"),
	})
	require.NoError(t, err)

	_, err = f.svc.Receive(context.Background(), orderID)
	require.NoError(t, err)

	_, err = f.svc.Receive(context.Background(), orderID)
	assert.Error(t, err, "receiving twice would double-book the stock")

	_, err = f.svc.AddItem(context.Background(), orderID, dto.AddPurchaseItemRequest{
		MedicineID: med.ID.String(),
		Quantity:   1,
		Price:      dec("60"),
		ExpiryDate: futureDate(365).Format("2006-01-02"),
	})
	assert.Error(t, err, "received orders are frozen")
}

func TestCancelPendingOrder(t *testing.T) {
	f := buildPurchaseFixture()
	order := f.pendingOrder(t)
	orderID := uuid.MustParse(order.ID)

	require.NoError(t, f.svc.Cancel(context.Background(), orderID))

	got, err := f.svc.Get(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCancelled, got.Status)

	assert.Error(t, f.svc.Cancel(context.Background(), orderID))
}
