package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

// StockRepository is the data access contract for dated stock lots.
type StockRepository interface {
	Create(ctx context.Context, e *model.StockEntry) error
	CreateTx(tx *gorm.DB, e *model.StockEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockEntry, error)
	ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]model.StockEntry, error)
	ListAll(ctx context.Context) ([]model.StockEntry, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.StockEntry, error)
	Save(ctx context.Context, e *model.StockEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)

	// SumAvailable sums boxes over non-expired lots of a medicine.
	SumAvailable(ctx context.Context, medicineID uuid.UUID, asOf time.Time) (int, error)

	// Transactional variants used inside checkout / receiving.
	SumAvailableTx(tx *gorm.DB, medicineID uuid.UUID, asOf time.Time) (int, error)
	// LockLotsTx loads the non-expired lots of a medicine FEFO-ordered
	// (expiration ASC, created ASC) under a row-level FOR UPDATE lock so
	// concurrent checkouts cannot drive stock negative.
	LockLotsTx(tx *gorm.DB, medicineID uuid.UUID, asOf time.Time) ([]model.StockEntry, error)
	SaveTx(tx *gorm.DB, e *model.StockEntry) error

	// PruneEmpty deletes lots with zero boxes and zero strip remainder.
	PruneEmpty(ctx context.Context) (int64, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

func (r *stockRepo) Create(ctx context.Context, e *model.StockEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *stockRepo) CreateTx(tx *gorm.DB, e *model.StockEntry) error {
	return tx.Create(e).Error
}

func (r *stockRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockEntry, error) {
	var e model.StockEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *stockRepo) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).
		Where("medicine_id = ?", medicineID).
		Order("expiration_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) ListAll(ctx context.Context) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).
		Order("medicine_id, expiration_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := r.db.WithContext(ctx).Preload("Medicine").
		Where("quantity > 0 AND expiration_date <= ?", cutoff).
		Order("expiration_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) Save(ctx context.Context, e *model.StockEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *stockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.StockEntry{}, id).Error
}

func (r *stockRepo) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.StockEntry{}, ids)
	return res.RowsAffected, res.Error
}

func (r *stockRepo) SumAvailable(ctx context.Context, medicineID uuid.UUID, asOf time.Time) (int, error) {
	return sumAvailable(r.db.WithContext(ctx), medicineID, asOf)
}

func (r *stockRepo) SumAvailableTx(tx *gorm.DB, medicineID uuid.UUID, asOf time.Time) (int, error) {
	return sumAvailable(tx, medicineID, asOf)
}

func sumAvailable(db *gorm.DB, medicineID uuid.UUID, asOf time.Time) (int, error) {
	var total *int
	err := db.Model(&model.StockEntry{}).
		Select("SUM(quantity)").
		Where("medicine_id = ? AND expiration_date >= ?", medicineID, asOf).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

func (r *stockRepo) LockLotsTx(tx *gorm.DB, medicineID uuid.UUID, asOf time.Time) ([]model.StockEntry, error) {
	var entries []model.StockEntry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("medicine_id = ? AND expiration_date >= ?", medicineID, asOf).
		Order("expiration_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) SaveTx(tx *gorm.DB, e *model.StockEntry) error {
	return tx.Save(e).Error
}

func (r *stockRepo) PruneEmpty(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("quantity = 0 AND (strips_remaining IS NULL OR strips_remaining = 0)").
		Delete(&model.StockEntry{})
	return res.RowsAffected, res.Error
}
