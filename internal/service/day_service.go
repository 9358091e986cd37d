package service

import (
	"context"
	"errors"
	"time"

	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/habit"
	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// dayStore は日次記録の遅延作成を含む読み込みをまとめます
type dayStore struct {
	repo  repository.DayRepository
	meals []model.MealLabel
}

func (d *dayStore) load(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, date string) (*model.DayRecord, error) {
	rec, err := d.repo.FindByDate(ctx, db, tenantID, date)
	if !errors.Is(err, model.ErrNotFound) {
		return rec, err
	}
	if err := d.repo.CreateIfAbsent(ctx, db, model.NewDayRecord(tenantID, date, d.meals)); err != nil {
		return nil, err
	}
	return d.repo.FindByDate(ctx, db, tenantID, date)
}

func (d *dayStore) lock(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID, date string) (*model.DayRecord, error) {
	rec, err := d.repo.FindByDateForUpdate(ctx, tx, tenantID, date)
	if !errors.Is(err, model.ErrNotFound) {
		return rec, err
	}
	if err := d.repo.CreateIfAbsent(ctx, tx, model.NewDayRecord(tenantID, date, d.meals)); err != nil {
		return nil, err
	}
	return d.repo.FindByDateForUpdate(ctx, tx, tenantID, date)
}

// rangeByDate は from〜to の記録を日付で引けるようにします
func (d *dayStore) rangeByDate(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, from, to time.Time) (map[string]*model.DayRecord, error) {
	recs, err := d.repo.FindRange(ctx, db, tenantID, habit.FormatDate(from), habit.FormatDate(to))
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*model.DayRecord, len(recs))
	for _, r := range recs {
		byDate[r.Date] = r
	}
	return byDate, nil
}

type DayService interface {
	GetDay(ctx context.Context, tenantID uuid.UUID, date string) (*model.DayResponse, error)
	ToggleIntake(ctx context.Context, tenantID uuid.UUID, date string, req *model.ToggleRequest) (*model.ToggleResponse, error)
	SelectAllSupplements(ctx context.Context, tenantID uuid.UUID, date string) (*model.ToggleResponse, error)
	UpdateMetrics(ctx context.Context, tenantID uuid.UUID, date string, req *model.MetricsRequest) (*model.DayResponse, error)
	GetWeek(ctx context.Context, tenantID uuid.UUID, date string) (*model.WeekResponse, error)
	GetMonth(ctx context.Context, tenantID uuid.UUID, month string) (*model.MonthResponse, error)
}

type dayService struct {
	db        *gorm.DB
	plans     *planStore
	days      *dayStore
	engine    *habit.Engine
	alerter   *StockAlerter
	publisher EventPublisher
	loc       *time.Location
	now       func() time.Time
}

func NewDayService(
	db *gorm.DB,
	planRepo repository.PlanRepository,
	dayRepo repository.DayRepository,
	template *PlanTemplate,
	engine *habit.Engine,
	alerter *StockAlerter,
	publisher EventPublisher,
	loc *time.Location,
) DayService {
	if loc == nil {
		loc = time.UTC
	}
	return &dayService{
		db:        db,
		plans:     &planStore{repo: planRepo, template: template},
		days:      &dayStore{repo: dayRepo, meals: engine.Meals()},
		engine:    engine,
		alerter:   alerter,
		publisher: publisherOrNoop(publisher),
		loc:       loc,
		now:       time.Now,
	}
}

func invalidDateError(err error) error {
	return model.NewAppError("INVALID_DATE", "日付は YYYY-MM-DD 形式で指定してください。", "date", err)
}

// engineError は habit パッケージのエラーを AppError に変換します
func engineError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.NewAppError("SUPPLEMENT_NOT_IN_SLOT", "指定された時間帯にこのサプリは登録されていません。", "name", err)
	case errors.Is(err, model.ErrInvalidInput):
		return model.NewAppError("INVALID_INTAKE", "チェック対象の指定が正しくありません。", "", err)
	}
	return err
}

func asAppError(err error, message string) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return internalError(message, err)
}

func (s *dayService) GetDay(ctx context.Context, tenantID uuid.UUID, date string) (*model.DayResponse, error) {
	if _, err := habit.ParseDate(date); err != nil {
		return nil, invalidDateError(err)
	}
	db := s.db.WithContext(ctx)
	plan, err := s.plans.load(ctx, db, tenantID)
	if err != nil {
		return nil, internalError("プランの取得に失敗しました。", err)
	}
	rec, err := s.days.load(ctx, db, tenantID, date)
	if err != nil {
		return nil, internalError("日次記録の取得に失敗しました。", err)
	}
	return model.NewDayResponse(rec, s.engine.Progress(plan, rec)), nil
}

// writeDay は日次記録に行ロックを取り、build が返す差分を保存します (1つ目のトランザクション)。
// 差分が空なら何も書かない
func (s *dayService) writeDay(
	ctx context.Context,
	tenantID uuid.UUID,
	date string,
	build func(plan *model.Plan, rec *model.DayRecord) (habit.DayPatch, habit.InventoryDeltas, error),
) (*model.Plan, *model.DayRecord, habit.InventoryDeltas, bool, error) {
	var (
		plan    *model.Plan
		rec     *model.DayRecord
		deltas  habit.InventoryDeltas
		changed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if plan, err = s.plans.load(ctx, tx, tenantID); err != nil {
			return err
		}
		if rec, err = s.days.lock(ctx, tx, tenantID, date); err != nil {
			return err
		}
		patch, d, err := build(plan, rec)
		if err != nil {
			return err
		}
		if patch.Empty() {
			return nil
		}
		meals, taken := patch.Apply(rec)
		rec.Meals = datatypes.NewJSONType(meals)
		rec.Taken = datatypes.NewJSONType(taken)
		if err := s.days.repo.Save(ctx, tx, rec); err != nil {
			return err
		}
		deltas, changed = d, true
		return nil
	})
	return plan, rec, deltas, changed, err
}

// applyDeltas は在庫差分を加算で反映します (2つ目のトランザクション)。
// 失敗しても日次記録は戻さない
func (s *dayService) applyDeltas(ctx context.Context, tenantID uuid.UUID, deltas habit.InventoryDeltas) (*model.Plan, error) {
	var before model.Inventory
	var saved *model.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := s.plans.lock(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		before = plan.Stock().Clone()
		plan.Inventory = datatypes.NewJSONType(deltas.ApplyTo(before))
		if err := s.plans.repo.Save(ctx, tx, plan); err != nil {
			return err
		}
		saved = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(events.Event{TenantID: tenantID, Kind: events.KindPlan})
	s.alerter.Check(ctx, tenantID, before, saved.Stock())
	return saved, nil
}

// finishIntake は日次記録の保存後に在庫を反映し、レスポンスを組み立てます
func (s *dayService) finishIntake(ctx context.Context, tenantID uuid.UUID, plan *model.Plan, rec *model.DayRecord, deltas habit.InventoryDeltas, changed bool) *model.ToggleResponse {
	resp := &model.ToggleResponse{}
	if changed {
		s.publisher.Publish(events.Event{TenantID: tenantID, Kind: events.KindDay, Date: rec.Date})
	}
	if changed && !deltas.Empty() {
		updated, err := s.applyDeltas(ctx, tenantID, deltas)
		if err != nil {
			middleware.GetLogger(ctx).Error("Inventory sync failed after day record was saved",
				"error", err,
				"tenant_id", tenantID.String(),
				"date", rec.Date,
				"deltas", deltas,
			)
			resp.Warnings = append(resp.Warnings, model.ErrorDetail{
				Code:    "INVENTORY_SYNC_FAILED",
				Message: "チェックは保存されましたが、在庫数の更新に失敗しました。",
			})
		} else {
			plan = updated
		}
	}
	resp.Day = model.NewDayResponse(rec, s.engine.Progress(plan, rec))
	resp.Inventory = plan.Stock().Clone()
	return resp
}

// ToggleIntake は1項目のチェックを切り替えます。
// 記録済みの値と同じなら何も書かない (在庫も二重に増減しない)
func (s *dayService) ToggleIntake(ctx context.Context, tenantID uuid.UUID, date string, req *model.ToggleRequest) (*model.ToggleResponse, error) {
	if _, err := habit.ParseDate(date); err != nil {
		return nil, invalidDateError(err)
	}
	if req.Checked == nil {
		return nil, model.NewAppError("VALIDATION_ERROR", "チェック状態は必須項目です。", "checked", model.ErrInvalidInput)
	}
	change := habit.Change{Kind: req.Kind, Name: req.Name, Checked: *req.Checked, Slot: model.Slot(req.Slot)}

	plan, rec, deltas, changed, err := s.writeDay(ctx, tenantID, date, func(plan *model.Plan, rec *model.DayRecord) (habit.DayPatch, habit.InventoryDeltas, error) {
		patch, deltas, err := s.engine.Toggle(plan, change)
		if err != nil {
			return habit.DayPatch{}, nil, engineError(err)
		}
		if habit.Unchanged(rec, change) {
			return habit.DayPatch{}, nil, nil
		}
		return patch, deltas, nil
	})
	if err != nil {
		return nil, asAppError(err, "チェックの保存に失敗しました。")
	}
	return s.finishIntake(ctx, tenantID, plan, rec, deltas, changed), nil
}

// SelectAllSupplements は未服用のサプリをまとめて服用済みにします
func (s *dayService) SelectAllSupplements(ctx context.Context, tenantID uuid.UUID, date string) (*model.ToggleResponse, error) {
	if _, err := habit.ParseDate(date); err != nil {
		return nil, invalidDateError(err)
	}
	plan, rec, deltas, changed, err := s.writeDay(ctx, tenantID, date, func(plan *model.Plan, rec *model.DayRecord) (habit.DayPatch, habit.InventoryDeltas, error) {
		patch, deltas := s.engine.SelectAll(plan, rec)
		return patch, deltas, nil
	})
	if err != nil {
		return nil, asAppError(err, "一括チェックの保存に失敗しました。")
	}
	return s.finishIntake(ctx, tenantID, plan, rec, deltas, changed), nil
}

// UpdateMetrics は指定された指標だけを更新します
func (s *dayService) UpdateMetrics(ctx context.Context, tenantID uuid.UUID, date string, req *model.MetricsRequest) (*model.DayResponse, error) {
	if _, err := habit.ParseDate(date); err != nil {
		return nil, invalidDateError(err)
	}
	var plan *model.Plan
	var rec *model.DayRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if plan, err = s.plans.load(ctx, tx, tenantID); err != nil {
			return err
		}
		if rec, err = s.days.lock(ctx, tx, tenantID, date); err != nil {
			return err
		}
		if req.Empty() {
			return nil
		}
		if req.SleepHours != nil {
			rec.SleepHours = *req.SleepHours
		}
		if req.Mood != nil {
			rec.Mood = *req.Mood
		}
		if req.Energy != nil {
			rec.Energy = *req.Energy
		}
		return s.days.repo.Save(ctx, tx, rec)
	})
	if err != nil {
		return nil, asAppError(err, "指標の保存に失敗しました。")
	}
	if !req.Empty() {
		s.publisher.Publish(events.Event{TenantID: tenantID, Kind: events.KindDay, Date: date})
	}
	return model.NewDayResponse(rec, s.engine.Progress(plan, rec)), nil
}

// GetWeek は date を含む週 (月曜始まり) の7日分と週平均を返します。
// 記録のない日は作らず、未チェックとして扱う
func (s *dayService) GetWeek(ctx context.Context, tenantID uuid.UUID, date string) (*model.WeekResponse, error) {
	d, err := habit.ParseDate(date)
	if err != nil {
		return nil, invalidDateError(err)
	}
	start := habit.StartOfWeek(d)
	end := habit.AddDays(start, habit.DaysPerWeek-1)

	db := s.db.WithContext(ctx)
	plan, err := s.plans.load(ctx, db, tenantID)
	if err != nil {
		return nil, internalError("プランの取得に失敗しました。", err)
	}
	byDate, err := s.days.rangeByDate(ctx, db, tenantID, start, end)
	if err != nil {
		return nil, internalError("日次記録の取得に失敗しました。", err)
	}

	var week [habit.DaysPerWeek]*model.DayRecord
	resp := &model.WeekResponse{
		WeekStart: habit.FormatDate(start),
		WeekEnd:   habit.FormatDate(end),
		Days:      make([]model.WeekDay, 0, habit.DaysPerWeek),
	}
	for i, ds := range habit.WeekDates(start) {
		week[i] = byDate[ds]
		resp.Days = append(resp.Days, model.WeekDay{
			Date:     ds,
			Weekday:  habit.AddDays(start, i).Weekday().String(),
			Progress: s.engine.Progress(plan, week[i]),
		})
	}
	resp.WeeklyPercent = s.engine.WeeklyAverage(plan, week)
	return resp, nil
}

// GetMonth は月のヒートマップを返します (YYYY-MM)
func (s *dayService) GetMonth(ctx context.Context, tenantID uuid.UUID, month string) (*model.MonthResponse, error) {
	first, err := habit.ParseMonth(month)
	if err != nil {
		return nil, model.NewAppError("INVALID_MONTH", "月は YYYY-MM 形式で指定してください。", "month", err)
	}
	start, end := habit.MonthRange(first)

	db := s.db.WithContext(ctx)
	plan, err := s.plans.load(ctx, db, tenantID)
	if err != nil {
		return nil, internalError("プランの取得に失敗しました。", err)
	}
	byDate, err := s.days.rangeByDate(ctx, db, tenantID, start, end)
	if err != nil {
		return nil, internalError("日次記録の取得に失敗しました。", err)
	}

	today := habit.FormatDate(s.now().In(s.loc))
	resp := &model.MonthResponse{
		Year:          start.Year(),
		Month:         int(start.Month()),
		LeadingBlanks: habit.LeadingBlanks(start),
		Days:          make([]model.HeatmapCell, 0, end.Day()),
	}
	for d := start; !d.After(end); d = habit.AddDays(d, 1) {
		ds := habit.FormatDate(d)
		pct := s.engine.Progress(plan, byDate[ds]).Percent
		resp.Days = append(resp.Days, model.HeatmapCell{
			Date:    ds,
			Day:     d.Day(),
			Percent: pct,
			Level:   habit.HeatLevel(pct),
			IsToday: ds == today,
		})
	}
	return resp, nil
}
