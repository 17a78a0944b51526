package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
	List(ctx context.Context, status string) ([]model.Prescription, error)
	Update(ctx context.Context, p *model.Prescription) error
	DB() *gorm.DB
}

type prescriptionRepo struct{ db *gorm.DB }

func NewPrescriptionRepository(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepo{db: db}
}

func (r *prescriptionRepo) DB() *gorm.DB { return r.db }

func (r *prescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *prescriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	var p model.Prescription
	err := r.db.WithContext(ctx).
		Preload("Items.Medicine").Preload("Customer").
		First(&p, id).Error
	return &p, err
}

func (r *prescriptionRepo) List(ctx context.Context, status string) ([]model.Prescription, error) {
	var prescriptions []model.Prescription
	q := r.db.WithContext(ctx).Preload("Items.Medicine").Preload("Customer")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&prescriptions).Error
	return prescriptions, err
}

func (r *prescriptionRepo) Update(ctx context.Context, p *model.Prescription) error {
	return r.db.WithContext(ctx).Save(p).Error
}
