package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testMedicine() *model.Medicine {
	return &model.Medicine{
		Name:          "Panadol Extra",
		Price:         dec("100"),
		PurchasePrice: dec("60"),
		StripsPerBox:  10,
		CanSellStrips: true,
	}
}

func TestUnitPrice(t *testing.T) {
	med := testMedicine()

	assert.True(t, UnitPrice(med, model.UnitBox).Equal(dec("100")))
	// Derived: 100 / 10 strips
	assert.True(t, UnitPrice(med, model.UnitStrip).Equal(dec("10")))

	// An explicit strip price wins over the derived one.
	explicit := dec("12.50")
	med.StripPrice = &explicit
	assert.True(t, UnitPrice(med, model.UnitStrip).Equal(dec("12.50")))
}

func TestUnitPriceZeroRatio(t *testing.T) {
	med := testMedicine()
	med.StripsPerBox = 0 // legacy row

	// Treated as 1 strip per box — never divides by zero.
	assert.True(t, UnitPrice(med, model.UnitStrip).Equal(dec("100")))
	assert.True(t, ToBoxes(3, model.UnitStrip, med).Equal(dec("3")))
}

func TestCostFloor(t *testing.T) {
	med := testMedicine()

	// 60 × 1.10
	assert.True(t, CostFloor(med, model.UnitBox).Equal(dec("66")))
	// (60 / 10) × 1.10
	assert.True(t, CostFloor(med, model.UnitStrip).Equal(dec("6.6")))
}

func TestToBoxes(t *testing.T) {
	med := testMedicine()

	assert.True(t, ToBoxes(3, model.UnitBox, med).Equal(dec("3")))
	assert.True(t, ToBoxes(5, model.UnitStrip, med).Equal(dec("0.5")))
	assert.True(t, ToBoxes(10, model.UnitStrip, med).Equal(dec("1")))
}

func TestPriceForNoCustomer(t *testing.T) {
	med := testMedicine()
	assert.True(t, PriceFor(med, model.UnitBox, nil).Equal(dec("100")))
}

func TestPriceForFamilyPaysFloor(t *testing.T) {
	med := testMedicine()
	family := &model.Customer{
		CustomerType:       model.TierFamily,
		DiscountPercentage: dec("5"), // ignored for FAMILY
	}

	assert.True(t, PriceFor(med, model.UnitBox, family).Equal(dec("66")))
	assert.True(t, PriceFor(med, model.UnitStrip, family).Equal(dec("6.6")))
}

func TestPriceForPercentageDiscount(t *testing.T) {
	med := testMedicine()
	vip := &model.Customer{
		CustomerType:       model.TierVIP,
		DiscountPercentage: dec("20"),
	}

	// 100 × 0.80 = 80, above the floor of 66
	assert.True(t, PriceFor(med, model.UnitBox, vip).Equal(dec("80")))
}

func TestPriceForDiscountClampedAtFloor(t *testing.T) {
	med := testMedicine()
	wholesale := &model.Customer{
		CustomerType:       model.TierWholesale,
		DiscountPercentage: dec("50"),
	}

	// 100 × 0.50 = 50 would undercut the 66 floor — clamp.
	assert.True(t, PriceFor(med, model.UnitBox, wholesale).Equal(dec("66")))
}

func TestPriceForZeroDiscountPaysBase(t *testing.T) {
	med := testMedicine()
	regular := &model.Customer{CustomerType: model.TierRegular}

	assert.True(t, PriceFor(med, model.UnitBox, regular).Equal(dec("100")))
}

func TestPriceForZeroCostMedicine(t *testing.T) {
	med := testMedicine()
	med.PurchasePrice = decimal.Zero
	wholesale := &model.Customer{
		CustomerType:       model.TierWholesale,
		DiscountPercentage: dec("100"),
	}

	// Floor of 0 — a full discount legitimately reaches 0.
	assert.True(t, PriceFor(med, model.UnitBox, wholesale).Equal(decimal.Zero))
}
