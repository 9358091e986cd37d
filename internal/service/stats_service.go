package service

import (
	"context"
	"time"

	"go_5_habit_keep/internal/habit"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatsService interface {
	WeeklyPercent(ctx context.Context, tenantID uuid.UUID, weekStart string) (*model.WeeklyPercentResponse, error)
	CurrentStreak(ctx context.Context, tenantID uuid.UUID) (*model.StreakResponse, error)
}

type statsService struct {
	db     *gorm.DB
	plans  *planStore
	days   *dayStore
	engine *habit.Engine
	loc    *time.Location
	now    func() time.Time
}

func NewStatsService(db *gorm.DB, planRepo repository.PlanRepository, dayRepo repository.DayRepository, template *PlanTemplate, engine *habit.Engine, loc *time.Location) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{
		db:     db,
		plans:  &planStore{repo: planRepo, template: template},
		days:   &dayStore{repo: dayRepo, meals: engine.Meals()},
		engine: engine,
		loc:    loc,
		now:    time.Now,
	}
}

// WeeklyPercent は weekStart を含む週の平均達成率を返します。月曜以外が来たらその週の月曜に寄せる
func (s *statsService) WeeklyPercent(ctx context.Context, tenantID uuid.UUID, weekStart string) (*model.WeeklyPercentResponse, error) {
	d, err := habit.ParseDate(weekStart)
	if err != nil {
		return nil, invalidDateError(err)
	}
	start := habit.StartOfWeek(d)

	db := s.db.WithContext(ctx)
	plan, err := s.plans.load(ctx, db, tenantID)
	if err != nil {
		return nil, internalError("プランの取得に失敗しました。", err)
	}
	byDate, err := s.days.rangeByDate(ctx, db, tenantID, start, habit.AddDays(start, habit.DaysPerWeek-1))
	if err != nil {
		return nil, internalError("日次記録の取得に失敗しました。", err)
	}

	var week [habit.DaysPerWeek]*model.DayRecord
	for i, ds := range habit.WeekDates(start) {
		week[i] = byDate[ds]
	}
	return &model.WeeklyPercentResponse{
		WeekStart:     habit.FormatDate(start),
		WeeklyPercent: s.engine.WeeklyAverage(plan, week),
	}, nil
}

// CurrentStreak は app.timezone での今日から遡った連続達成日数を返します。
// 最大365日分を1回の範囲クエリで読む
func (s *statsService) CurrentStreak(ctx context.Context, tenantID uuid.UUID) (*model.StreakResponse, error) {
	today := habit.CalendarDay(s.now().In(s.loc))
	from := habit.AddDays(today, -(habit.MaxStreakDays - 1))

	db := s.db.WithContext(ctx)
	plan, err := s.plans.load(ctx, db, tenantID)
	if err != nil {
		return nil, internalError("プランの取得に失敗しました。", err)
	}
	byDate, err := s.days.rangeByDate(ctx, db, tenantID, from, today)
	if err != nil {
		return nil, internalError("日次記録の取得に失敗しました。", err)
	}

	lookup := func(date string) (*model.DayRecord, bool) {
		rec, ok := byDate[date]
		return rec, ok
	}
	return &model.StreakResponse{
		Streak: s.engine.Streak(plan, lookup, today),
		Today:  habit.FormatDate(today),
	}, nil
}
