package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context) ([]model.Purchase, error)
	AddItem(ctx context.Context, item *model.PurchaseItem) error
	UpdateTotal(ctx context.Context, id uuid.UUID, total interface{}) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error

	// LatestPriceBefore finds the most recent purchase-order unit price for a
	// medicine recorded on or before the given date. This is THE historical
	// cost lookup — profit reports must not re-implement it.
	LatestPriceBefore(ctx context.Context, medicineID uuid.UUID, date time.Time) (*model.PurchaseItem, error)

	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items.Medicine").Preload("Supplier").
		First(&p, id).Error
	return &p, err
}

func (r *purchaseRepo) List(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).Preload("Supplier").
		Order("date DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) AddItem(ctx context.Context, item *model.PurchaseItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *purchaseRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("id = ?", id).Update("total_amount", total).Error
}

func (r *purchaseRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Purchase{}).Where("id = ?", id).Update("status", status).Error
}

func (r *purchaseRepo) LatestPriceBefore(ctx context.Context, medicineID uuid.UUID, date time.Time) (*model.PurchaseItem, error) {
	var item model.PurchaseItem
	err := r.db.WithContext(ctx).
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchase_items.medicine_id = ? AND DATE(purchases.date) <= DATE(?)", medicineID, date).
		Order("purchases.date DESC").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
