package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joroshdy12596/ai-pharmacy/internal/model"
)

type AnalyticsRepository interface {
	// UpsertByDate replaces the whole snapshot row for its date — the
	// snapshot is a pure recompute, never a merge.
	UpsertByDate(ctx context.Context, snap *model.ProfitAnalytics) error
	FindByDate(ctx context.Context, date time.Time) (*model.ProfitAnalytics, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.ProfitAnalytics, error)
	DB() *gorm.DB
}

type analyticsRepo struct{ db *gorm.DB }

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository { return &analyticsRepo{db: db} }

func (r *analyticsRepo) DB() *gorm.DB { return r.db }

func (r *analyticsRepo) UpsertByDate(ctx context.Context, snap *model.ProfitAnalytics) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sales", "total_cost", "total_profit", "profit_margin",
			"number_of_sales", "avg_profit_per_sale", "top_category", "top_medicine_id",
		}),
	}).Create(snap).Error
}

func (r *analyticsRepo) FindByDate(ctx context.Context, date time.Time) (*model.ProfitAnalytics, error) {
	var snap model.ProfitAnalytics
	err := r.db.WithContext(ctx).Preload("TopMedicine").
		Where("date = DATE(?)", date).First(&snap).Error
	return &snap, err
}

func (r *analyticsRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.ProfitAnalytics, error) {
	var snaps []model.ProfitAnalytics
	err := r.db.WithContext(ctx).Preload("TopMedicine").
		Where("date >= DATE(?) AND date <= DATE(?)", from, to).
		Order("date DESC").Find(&snaps).Error
	return snaps, err
}
