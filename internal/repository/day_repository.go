//go:generate mockery --name DayRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DayRepository は日次記録を扱います。主キーは (tenant_id, date)
type DayRepository interface {
	FindByDate(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, date string) (*model.DayRecord, error)
	FindByDateForUpdate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, date string) (*model.DayRecord, error)
	// FindRange は from <= date <= to の記録を日付昇順で返します
	FindRange(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, from, to string) ([]*model.DayRecord, error)
	CreateIfAbsent(ctx context.Context, db *gorm.DB, rec *model.DayRecord) error
	Save(ctx context.Context, tx *gorm.DB, rec *model.DayRecord) error
}

type gormDayRepository struct{}

func NewGormDayRepository() DayRepository {
	return &gormDayRepository{}
}

func (r *gormDayRepository) find(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, date string, forUpdate bool) (*model.DayRecord, error) {
	var rec model.DayRecord
	q := db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	result := q.Where("tenant_id = ? AND date = ?", tenantID, date).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error(
			"Error finding day record in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
			"date", date,
		)
		return nil, fmt.Errorf("gormDayRepository.find: %w", result.Error)
	}
	return &rec, nil
}

func (r *gormDayRepository) FindByDate(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, date string) (*model.DayRecord, error) {
	return r.find(ctx, db, tenantID, date, false)
}

func (r *gormDayRepository) FindByDateForUpdate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, date string) (*model.DayRecord, error) {
	return r.find(ctx, tx, tenantID, date, true)
}

func (r *gormDayRepository) FindRange(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, from, to string) ([]*model.DayRecord, error) {
	var recs []*model.DayRecord
	result := db.WithContext(ctx).
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to).
		Order("date ASC").
		Find(&recs)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error(
			"Error finding day records in range",
			"error", result.Error,
			"tenant_id", tenantID.String(),
			"from", from,
			"to", to,
		)
		return nil, fmt.Errorf("gormDayRepository.FindRange: %w", result.Error)
	}
	return recs, nil
}

func (r *gormDayRepository) CreateIfAbsent(ctx context.Context, db *gorm.DB, rec *model.DayRecord) error {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error(
			"Error creating day record in DB",
			"error", result.Error,
			"tenant_id", rec.TenantID.String(),
			"date", rec.Date,
		)
		return fmt.Errorf("gormDayRepository.CreateIfAbsent: %w", result.Error)
	}
	return nil
}

func (r *gormDayRepository) Save(ctx context.Context, tx *gorm.DB, rec *model.DayRecord) error {
	result := tx.WithContext(ctx).Model(rec).
		Select("meals", "taken", "sleep_hours", "mood", "energy", "updated_at").
		Updates(rec)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error(
			"Error updating day record in DB",
			"error", result.Error,
			"tenant_id", rec.TenantID.String(),
			"date", rec.Date,
		)
		return fmt.Errorf("gormDayRepository.Save: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
