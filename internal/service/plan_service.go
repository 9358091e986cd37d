package service

import (
	"context"
	"errors"

	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventPublisher は変更通知の送り先 (events.Broker)
type EventPublisher interface {
	Publish(ev events.Event) int
}

type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) int { return 0 }

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// planStore はプランの遅延作成を含む読み込みをまとめます
type planStore struct {
	repo     repository.PlanRepository
	template *PlanTemplate
}

func (p *planStore) seed(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) error {
	plan, err := p.template.Build(tenantID)
	if err != nil {
		return err
	}
	middleware.GetLogger(ctx).Info("Seeding default plan", "tenant_id", tenantID.String())
	return p.repo.CreateIfAbsent(ctx, db, plan)
}

// load はプランを返します。まだなければ初期プランを作る
func (p *planStore) load(ctx context.Context, db *gorm.DB, tenantID uuid.UUID) (*model.Plan, error) {
	plan, err := p.repo.FindByTenant(ctx, db, tenantID)
	if !errors.Is(err, model.ErrNotFound) {
		return plan, err
	}
	if err := p.seed(ctx, db, tenantID); err != nil {
		return nil, err
	}
	return p.repo.FindByTenant(ctx, db, tenantID)
}

// lock はトランザクション内で行ロックを取ってプランを返します
func (p *planStore) lock(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (*model.Plan, error) {
	plan, err := p.repo.FindByTenantForUpdate(ctx, tx, tenantID)
	if !errors.Is(err, model.ErrNotFound) {
		return plan, err
	}
	if err := p.seed(ctx, tx, tenantID); err != nil {
		return nil, err
	}
	return p.repo.FindByTenantForUpdate(ctx, tx, tenantID)
}

type PlanService interface {
	GetPlan(ctx context.Context, tenantID uuid.UUID) (*model.Plan, error)
	AddSupplement(ctx context.Context, tenantID uuid.UUID, slot model.Slot, name string) (*model.Plan, error)
	RemoveSupplement(ctx context.Context, tenantID uuid.UUID, slot model.Slot, name string) (*model.Plan, error)
	SetStock(ctx context.Context, tenantID uuid.UUID, name string, count int) (*model.Plan, error)
	UntrackStock(ctx context.Context, tenantID uuid.UUID, name string) (*model.Plan, error)
}

type planService struct {
	db           *gorm.DB
	plans        *planStore
	defaultStock int
	alerter      *StockAlerter
	publisher    EventPublisher
}

func NewPlanService(db *gorm.DB, planRepo repository.PlanRepository, template *PlanTemplate, defaultStock int, alerter *StockAlerter, publisher EventPublisher) PlanService {
	return &planService{
		db:           db,
		plans:        &planStore{repo: planRepo, template: template},
		defaultStock: defaultStock,
		alerter:      alerter,
		publisher:    publisherOrNoop(publisher),
	}
}

func checkSlot(slot model.Slot) error {
	if _, err := model.ParseSlot(string(slot)); err != nil {
		return model.NewAppError("INVALID_SLOT", "時間帯は morning, midday, evening のいずれかを指定してください。", "slot", err)
	}
	return nil
}

func invalidNameError(err error) error {
	return model.NewAppError("INVALID_SUPPLEMENT_NAME", "サプリ名を1〜100文字で入力してください。", "name", err)
}

func (s *planService) GetPlan(ctx context.Context, tenantID uuid.UUID) (*model.Plan, error) {
	plan, err := s.plans.load(ctx, s.db.WithContext(ctx), tenantID)
	if err != nil {
		return nil, internalError("プランの取得に失敗しました。", err)
	}
	return plan, nil
}

// mutate はプランに行ロックを取って fn を適用し、保存後に通知します
func (s *planService) mutate(ctx context.Context, tenantID uuid.UUID, fn func(plan *model.Plan) error) (*model.Plan, error) {
	var saved *model.Plan
	var before model.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.plans.lock(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		before = plan.Stock().Clone()
		if err := fn(plan); err != nil {
			return err
		}
		if err := s.plans.repo.Save(ctx, tx, plan); err != nil {
			return err
		}
		saved = plan
		return nil
	})
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, internalError("プランの更新に失敗しました。", err)
	}

	s.publisher.Publish(events.Event{TenantID: tenantID, Kind: events.KindPlan})
	s.alerter.Check(ctx, tenantID, before, saved.Stock())
	return saved, nil
}

// AddSupplement はスロットの末尾にサプリを追加します。
// 在庫管理されていない名前は defaultStock から管理を始める
func (s *planService) AddSupplement(ctx context.Context, tenantID uuid.UUID, slot model.Slot, rawName string) (*model.Plan, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	name, err := model.NewSupplementName(rawName)
	if err != nil {
		return nil, invalidNameError(err)
	}
	return s.mutate(ctx, tenantID, func(plan *model.Plan) error {
		items := plan.SlotItems(slot)
		if containsSupplement(items, name) {
			return model.NewAppError("SUPPLEMENT_ALREADY_IN_SLOT", "このサプリは既にこの時間帯に登録されています。", "name", model.ErrConflict)
		}
		next := make([]model.SupplementName, 0, len(items)+1)
		next = append(next, items...)
		plan.SetSlotItems(slot, append(next, name))

		if !plan.IsTracked(name) {
			inv := plan.Stock().Clone()
			inv[name] = s.defaultStock
			plan.Inventory = datatypes.NewJSONType(inv)
		}
		return nil
	})
}

// RemoveSupplement はスロットから外します。在庫と過去の記録はそのまま残す
func (s *planService) RemoveSupplement(ctx context.Context, tenantID uuid.UUID, slot model.Slot, rawName string) (*model.Plan, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	name, err := model.NewSupplementName(rawName)
	if err != nil {
		return nil, invalidNameError(err)
	}
	return s.mutate(ctx, tenantID, func(plan *model.Plan) error {
		items := plan.SlotItems(slot)
		if !containsSupplement(items, name) {
			return model.NewAppError("SUPPLEMENT_NOT_IN_SLOT", "指定された時間帯にこのサプリは登録されていません。", "name", model.ErrNotFound)
		}
		next := make([]model.SupplementName, 0, len(items)-1)
		for _, it := range items {
			if it != name {
				next = append(next, it)
			}
		}
		plan.SetSlotItems(slot, next)
		return nil
	})
}

// SetStock は残数を上書きします。管理対象外なら管理を始める
func (s *planService) SetStock(ctx context.Context, tenantID uuid.UUID, rawName string, count int) (*model.Plan, error) {
	name, err := model.NewSupplementName(rawName)
	if err != nil {
		return nil, invalidNameError(err)
	}
	return s.mutate(ctx, tenantID, func(plan *model.Plan) error {
		inv := plan.Stock().Clone()
		inv[name] = count
		plan.Inventory = datatypes.NewJSONType(inv)
		return nil
	})
}

// UntrackStock は在庫管理をやめます (以降チェックしても増減しない)
func (s *planService) UntrackStock(ctx context.Context, tenantID uuid.UUID, rawName string) (*model.Plan, error) {
	name, err := model.NewSupplementName(rawName)
	if err != nil {
		return nil, invalidNameError(err)
	}
	return s.mutate(ctx, tenantID, func(plan *model.Plan) error {
		if !plan.IsTracked(name) {
			return model.NewAppError("STOCK_NOT_TRACKED", "このサプリの在庫は管理されていません。", "name", model.ErrNotFound)
		}
		inv := plan.Stock().Clone()
		delete(inv, name)
		plan.Inventory = datatypes.NewJSONType(inv)
		return nil
	})
}

func containsSupplement(items []model.SupplementName, name model.SupplementName) bool {
	for _, it := range items {
		if it == name {
			return true
		}
	}
	return false
}

func internalError(message string, err error) error {
	return model.NewAppError("INTERNAL_SERVER_ERROR", message, "", errors.Join(model.ErrInternalServer, err))
}
