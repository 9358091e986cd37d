// internal/service/tenant_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TenantService interface {
	CreateTenant(ctx context.Context, req *model.CreateTenantRequest) (*model.Tenant, error)
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*model.Tenant, error)
}

type tenantService struct {
	db         *gorm.DB
	tenantRepo repository.TenantRepository
}

func NewTenantService(db *gorm.DB, repo repository.TenantRepository) TenantService {
	return &tenantService{db: db, tenantRepo: repo}
}

func (s *tenantService) CreateTenant(ctx context.Context, req *model.CreateTenantRequest) (*model.Tenant, error) {
	logger := middleware.GetLogger(ctx)

	tenant := &model.Tenant{
		TenantID: uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if tenant.Name == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "名前は必須項目です。", "name", model.ErrInvalidInput)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.tenantRepo.FindByEmail(ctx, tx, tenant.Email); err == nil {
			return model.NewAppError("EMAIL_ALREADY_EXISTS", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		return s.tenantRepo.Create(ctx, tx, tenant)
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			var appErr *model.AppError
			if errors.As(err, &appErr) {
				return nil, appErr
			}
			return nil, model.NewAppError("EMAIL_ALREADY_EXISTS", "このメールアドレスは既に使用されています。", "email", model.ErrConflict)
		}
		logger.Error("Failed to create tenant", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", model.ErrInternalServer)
	}

	logger.Info("Tenant created", "tenant_id", tenant.TenantID.String())
	return tenant, nil
}

// GetTenant は指定されたIDのテナントを取得します
func (s *tenantService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*model.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("TENANT_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, err
	}
	return tenant, nil
}
