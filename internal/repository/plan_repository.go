//go:generate mockery --name PlanRepository --output ./mocks --outpkg mocks --case=underscore
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

// PlanRepository はユーザーごとのプラン (1行) を扱います。
// 書き込みはサービス層のトランザクション内で FindByTenantForUpdate -> Save の順に行う
type PlanRepository interface {
	FindByTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (*model.Plan, error)
	FindByTenantForUpdate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*model.Plan, error)
	CreateIfAbsent(ctx context.Context, db *gorm.DB, plan *model.Plan) error
	Save(ctx context.Context, tx *gorm.DB, plan *model.Plan) error
}

type gormPlanRepository struct{}

func NewGormPlanRepository() PlanRepository {
	return &gormPlanRepository{}
}

func (r *gormPlanRepository) find(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, forUpdate bool) (*model.Plan, error) {
	var plan model.Plan
	q := db.WithContext(ctx)
	if forUpdate {
		// sqlite ドライバは FOR UPDATE を出力しない
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	result := q.Where("tenant_id = ?", tenantID).First(&plan)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error(
			"Error finding plan in DB",
			"error", result.Error,
			"tenant_id", tenantID.String(),
		)
		return nil, fmt.Errorf("gormPlanRepository.find: %w", result.Error)
	}
	return &plan, nil
}

func (r *gormPlanRepository) FindByTenant(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (*model.Plan, error) {
	return r.find(ctx, db, tenantID, false)
}

func (r *gormPlanRepository) FindByTenantForUpdate(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*model.Plan, error) {
	return r.find(ctx, tx, tenantID, true)
}

// CreateIfAbsent は既存の行があれば何もしません (初回アクセスの競合対策)
func (r *gormPlanRepository) CreateIfAbsent(ctx context.Context, db *gorm.DB, plan *model.Plan) error {
	result := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(plan)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error(
			"Error creating plan in DB",
			"error", result.Error,
			"tenant_id", plan.TenantID.String(),
		)
		return fmt.Errorf("gormPlanRepository.CreateIfAbsent: %w", result.Error)
	}
	return nil
}

func (r *gormPlanRepository) Save(ctx context.Context, tx *gorm.DB, plan *model.Plan) error {
	result := tx.WithContext(ctx).Model(plan).
		Select("morning", "midday", "evening", "inventory", "updated_at").
		Updates(plan)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error(
			"Error updating plan in DB",
			"error", result.Error,
			"tenant_id", plan.TenantID.String(),
		)
		return fmt.Errorf("gormPlanRepository.Save: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
