package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/dto"
	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

// MedicineRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type MedicineRepository interface {
	Create(ctx context.Context, m *model.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Medicine, error)
	BarcodeExists(ctx context.Context, barcode string) (bool, error)
	List(ctx context.Context, filter dto.MedicineFilter) ([]model.Medicine, int64, error)
	ListLowStock(ctx context.Context) ([]model.Medicine, error)
	ListActive(ctx context.Context) ([]model.Medicine, error)
	Update(ctx context.Context, m *model.Medicine) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Medicine, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type medicineRepo struct{ db *gorm.DB }

func NewMedicineRepository(db *gorm.DB) MedicineRepository { return &medicineRepo{db: db} }

func (r *medicineRepo) DB() *gorm.DB { return r.db }

func (r *medicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *medicineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *medicineRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Medicine, error) {
	var m model.Medicine
	err := r.db.WithContext(ctx).Where("barcode_number = ? AND active = true", barcode).First(&m).Error
	return &m, err
}

func (r *medicineRepo) BarcodeExists(ctx context.Context, barcode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Medicine{}).
		Where("barcode_number = ?", barcode).Count(&count).Error
	return count > 0, err
}

func (r *medicineRepo) List(ctx context.Context, filter dto.MedicineFilter) ([]model.Medicine, int64, error) {
	var medicines []model.Medicine
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Medicine{})

	// Active filter: "false" = inactive, "all" = everything, else active only
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode_number = ?", filter.Barcode)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&medicines).Error
	return medicines, total, err
}

func (r *medicineRepo) ListLowStock(ctx context.Context) ([]model.Medicine, error) {
	var medicines []model.Medicine
	err := r.db.WithContext(ctx).
		Where("active = true AND stock <= reorder_level").
		Order("stock ASC").Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepo) ListActive(ctx context.Context) ([]model.Medicine, error) {
	var medicines []model.Medicine
	err := r.db.WithContext(ctx).Where("active = true").Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepo) Update(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *medicineRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Medicine{}).Where("id = ?", id).Update("active", false).Error
}

func (r *medicineRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Medicine{}).Where("id = ?", id).Update("active", true).Error
}

func (r *medicineRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := tx.First(&m, id).Error
	return &m, err
}

func (r *medicineRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.Medicine{}).Where("id = ?", id).Update("stock", stock).Error
}
