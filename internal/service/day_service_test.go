package service

import (
	"errors"
	"testing"
	"time"

	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/habit"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"
	"go_5_habit_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func toggle(kind, name string, checked bool, slot model.Slot) *model.ToggleRequest {
	return &model.ToggleRequest{Kind: kind, Name: name, Checked: boolPtr(checked), Slot: string(slot)}
}

// completeDay は b12Template のプランで date を全項目達成にします
func completeDay(t *testing.T, svc *testServices, tenantID uuid.UUID, date string) {
	t.Helper()
	ctx := testContext()
	for _, req := range []*model.ToggleRequest{
		toggle(model.IntakeKindMeal, "Breakfast", true, ""),
		toggle(model.IntakeKindMeal, "Lunch", true, ""),
		toggle(model.IntakeKindSupplement, "B12", true, model.SlotMorning),
	} {
		_, err := svc.day.ToggleIntake(ctx, tenantID, date, req)
		require.NoError(t, err)
	}
}

func Test_dayService_GetDay_LazyCreate(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	tenantID := uuid.New()

	day, err := svc.day.GetDay(ctx, tenantID, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", day.Date)
	assert.Equal(t, model.MealChecks{"Breakfast": false, "Lunch": false}, day.Meals)
	assert.Contains(t, day.Taken, model.SlotEvening)
	assert.Equal(t, model.ProgressSnapshot{Total: 3}, day.Progress)

	_, err = repository.NewGormDayRepository().FindByDate(ctx, svc.db, tenantID, "2024-05-01")
	assert.NoError(t, err)

	_, err = svc.day.GetDay(ctx, tenantID, "2024-5-1")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, "INVALID_DATE", appErrorCode(t, err))
}

func Test_dayService_ToggleIntake_InventoryRoundTrip(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	tenantID := uuid.New()

	resp, err := svc.day.ToggleIntake(ctx, tenantID, "2024-05-01", toggle(model.IntakeKindSupplement, "B12", true, model.SlotMorning))
	require.NoError(t, err)
	assert.True(t, resp.Day.Taken[model.SlotMorning]["B12"])
	assert.Equal(t, 9, resp.Inventory["B12"])
	assert.Equal(t, 1, resp.Day.Progress.Done)
	assert.Empty(t, resp.Warnings)

	resp, err = svc.day.ToggleIntake(ctx, tenantID, "2024-05-01", toggle(model.IntakeKindSupplement, "B12", false, model.SlotMorning))
	require.NoError(t, err)
	assert.False(t, resp.Day.Taken[model.SlotMorning]["B12"])
	assert.Equal(t, 10, resp.Inventory["B12"])

	plan, err := svc.plan.GetPlan(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 10, plan.Stock()["B12"])
}

func Test_dayService_ToggleIntake_SameValueIsSkipped(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	tenantID := uuid.New()
	req := toggle(model.IntakeKindSupplement, "B12", true, model.SlotMorning)

	_, err := svc.day.ToggleIntake(ctx, tenantID, "2024-05-01", req)
	require.NoError(t, err)

	ch, cancel := svc.broker.Subscribe(tenantID)
	defer cancel()

	resp, err := svc.day.ToggleIntake(ctx, tenantID, "2024-05-01", req)
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Inventory["B12"])
	assert.Len(t, ch, 0)

	// 未チェックの項目を false にしても在庫は増えない
	resp, err = svc.day.ToggleIntake(ctx, tenantID, "2024-05-02", toggle(model.IntakeKindSupplement, "B12", false, model.SlotMorning))
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Inventory["B12"])
}

func Test_dayService_ToggleIntake_MealAndEvents(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	tenantID := uuid.New()
	ch, cancel := svc.broker.Subscribe(tenantID)
	defer cancel()

	resp, err := svc.day.ToggleIntake(ctx, tenantID, "2024-05-01", toggle(model.IntakeKindMeal, "Breakfast", true, ""))
	require.NoError(t, err)
	assert.True(t, resp.Day.Meals["Breakfast"])
	assert.Equal(t, 10, resp.Inventory["B12"])
	assert.Equal(t, model.ProgressSnapshot{Total: 3, Done: 1, Percent: 33}, resp.Day.Progress)

	require.Len(t, ch, 1)
	ev := <-ch
	assert.Equal(t, events.KindDay, ev.Kind)
	assert.Equal(t, "2024-05-01", ev.Date)
}

func Test_dayService_ToggleIntake_Errors(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		req      *model.ToggleRequest
		wantCode string
		wantErr  error
	}{
		{
			name:     "異常系: サプリでスロット未指定",
			date:     "2024-05-01",
			req:      toggle(model.IntakeKindSupplement, "B12", true, ""),
			wantCode: "INVALID_INTAKE",
			wantErr:  model.ErrInvalidInput,
		},
		{
			name:     "異常系: スロットにないサプリ",
			date:     "2024-05-01",
			req:      toggle(model.IntakeKindSupplement, "B12", true, model.SlotEvening),
			wantCode: "SUPPLEMENT_NOT_IN_SLOT",
			wantErr:  model.ErrNotFound,
		},
		{
			name:     "異常系: 未知の食事",
			date:     "2024-05-01",
			req:      toggle(model.IntakeKindMeal, "Dessert", true, ""),
			wantCode: "INVALID_INTAKE",
			wantErr:  model.ErrInvalidInput,
		},
		{
			name:     "異常系: 日付の形式",
			date:     "01-05-2024",
			req:      toggle(model.IntakeKindMeal, "Breakfast", true, ""),
			wantCode: "INVALID_DATE",
			wantErr:  model.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t, b12Template(), nil)
			_, err := svc.day.ToggleIntake(testContext(), uuid.New(), tt.date, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCode, appErrorCode(t, err))
		})
	}
}

func Test_dayService_SelectAllSupplements(t *testing.T) {
	ctx := testContext()
	tmpl := &PlanTemplate{
		Morning:   []string{"B12", "Iron"},
		Midday:    []string{"B12"},
		Inventory: map[string]int{"B12": 10},
	}
	svc := newTestServices(t, tmpl, nil)
	tenantID := uuid.New()

	resp, err := svc.day.SelectAllSupplements(ctx, tenantID, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Inventory["B12"])
	assert.True(t, resp.Day.Taken[model.SlotMorning]["Iron"])
	assert.True(t, resp.Day.Taken[model.SlotMidday]["B12"])
	// 食事は対象外
	assert.False(t, resp.Day.Meals["Breakfast"])
	assert.Equal(t, 3, resp.Day.Progress.Done)

	ch, cancel := svc.broker.Subscribe(tenantID)
	defer cancel()

	resp, err = svc.day.SelectAllSupplements(ctx, tenantID, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Inventory["B12"])
	assert.Len(t, ch, 0)
}

func Test_dayService_ToggleIntake_InventorySyncFailure(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	tenantID := uuid.New()
	planRepo := mocks.NewPlanRepository(t)
	dayRepo := repository.NewGormDayRepository()
	plan := model.NewPlan(tenantID, map[model.Slot][]model.SupplementName{
		model.SlotMorning: {"B12"},
	}, model.Inventory{"B12": 10})

	planRepo.On("FindByTenant", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).Return(plan, nil).Once()
	planRepo.On("FindByTenantForUpdate", ctx, mock.AnythingOfType("*gorm.DB"), tenantID).
		Return(nil, errors.New("connection reset")).Once()

	svc := NewDayService(db, planRepo, dayRepo, b12Template(), habit.NewEngine(testMeals), nil, nil, time.UTC)

	resp, err := svc.ToggleIntake(ctx, tenantID, "2024-05-01", toggle(model.IntakeKindSupplement, "B12", true, model.SlotMorning))
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "INVENTORY_SYNC_FAILED", resp.Warnings[0].Code)
	assert.Equal(t, 10, resp.Inventory["B12"])

	// 日次記録は保存されたまま
	rec, err := dayRepo.FindByDate(ctx, db, tenantID, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, rec.IsTaken(model.SlotMorning, "B12"))
}

func Test_dayService_UpdateMetrics(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	tenantID := uuid.New()
	sleep := 7.5

	day, err := svc.day.UpdateMetrics(ctx, tenantID, "2024-05-01", &model.MetricsRequest{SleepHours: &sleep, Mood: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 7.5, day.SleepHours)
	assert.Equal(t, 8, day.Mood)
	assert.Equal(t, 0, day.Energy)

	day, err = svc.day.UpdateMetrics(ctx, tenantID, "2024-05-01", &model.MetricsRequest{Energy: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 7.5, day.SleepHours)
	assert.Equal(t, 8, day.Mood)
	assert.Equal(t, 4, day.Energy)
}

func Test_dayService_GetWeek(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	tenantID := uuid.New()
	completeDay(t, svc, tenantID, "2024-05-12")

	week, err := svc.day.GetWeek(ctx, tenantID, "2024-05-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", week.WeekStart)
	assert.Equal(t, "2024-05-12", week.WeekEnd)
	require.Len(t, week.Days, 7)
	assert.Equal(t, "Monday", week.Days[0].Weekday)
	assert.Equal(t, "Sunday", week.Days[6].Weekday)
	assert.True(t, week.Days[6].Progress.FullyDone)
	assert.Equal(t, 0, week.Days[0].Progress.Percent)
	assert.Equal(t, 14, week.WeeklyPercent)
}

func Test_dayService_GetMonth(t *testing.T) {
	ctx := testContext()
	svc := newTestServices(t, b12Template(), nil)
	svc.day.now = func() time.Time { return time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC) }
	tenantID := uuid.New()
	completeDay(t, svc, tenantID, "2024-02-10")
	_, err := svc.day.ToggleIntake(ctx, tenantID, "2024-02-11", toggle(model.IntakeKindMeal, "Breakfast", true, ""))
	require.NoError(t, err)

	month, err := svc.day.GetMonth(ctx, tenantID, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, 2024, month.Year)
	assert.Equal(t, 2, month.Month)
	assert.Equal(t, 3, month.LeadingBlanks)
	require.Len(t, month.Days, 29)

	feb10 := month.Days[9]
	assert.Equal(t, "2024-02-10", feb10.Date)
	assert.Equal(t, 100, feb10.Percent)
	assert.Equal(t, 5, feb10.Level)
	assert.True(t, feb10.IsToday)

	feb11 := month.Days[10]
	assert.Equal(t, 33, feb11.Percent)
	assert.Equal(t, 2, feb11.Level)
	assert.False(t, feb11.IsToday)

	_, err = svc.day.GetMonth(ctx, tenantID, "2024-2")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
