// internal/habit/toggle_test.go
package habit

import (
	"testing"

	"go_5_habit_keep/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Engine_Toggle(t *testing.T) {
	engine := NewEngine(testMeals)
	plan := newTestPlan(
		[]model.SupplementName{"B12", "Iron"},
		[]model.SupplementName{"Zinc"},
		nil,
		model.Inventory{"B12": 10},
	)

	tests := []struct {
		name       string
		change     Change
		wantPatch  DayPatch
		wantDeltas InventoryDeltas
		wantErr    error
	}{
		{
			name:       "正常系: 食事のチェックは在庫に影響しない",
			change:     Change{Kind: model.IntakeKindMeal, Name: "Breakfast", Checked: true},
			wantPatch:  DayPatch{Meals: map[model.MealLabel]bool{"Breakfast": true}},
			wantDeltas: InventoryDeltas{},
		},
		{
			name:   "正常系: 管理対象サプリを服用すると -1",
			change: Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: true, Slot: model.SlotMorning},
			wantPatch: DayPatch{Taken: map[model.Slot]map[model.SupplementName]bool{
				model.SlotMorning: {"B12": true},
			}},
			wantDeltas: InventoryDeltas{"B12": -1},
		},
		{
			name:   "正常系: 管理対象サプリのチェックを外すと +1",
			change: Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: false, Slot: model.SlotMorning},
			wantPatch: DayPatch{Taken: map[model.Slot]map[model.SupplementName]bool{
				model.SlotMorning: {"B12": false},
			}},
			wantDeltas: InventoryDeltas{"B12": 1},
		},
		{
			name:   "正常系: 管理対象外のサプリは在庫差分なし",
			change: Change{Kind: model.IntakeKindSupplement, Name: "Zinc", Checked: true, Slot: model.SlotMidday},
			wantPatch: DayPatch{Taken: map[model.Slot]map[model.SupplementName]bool{
				model.SlotMidday: {"Zinc": true},
			}},
			wantDeltas: InventoryDeltas{},
		},
		{
			name:    "異常系: サプリでスロット未指定",
			change:  Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: true},
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "異常系: スロットにないサプリ",
			change:  Change{Kind: model.IntakeKindSupplement, Name: "Zinc", Checked: true, Slot: model.SlotMorning},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "異常系: 未知の食事ラベル",
			change:  Change{Kind: model.IntakeKindMeal, Name: "Dessert", Checked: true},
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "異常系: 未知の種別",
			change:  Change{Kind: "sleep", Name: "B12", Checked: true},
			wantErr: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, deltas, err := engine.Toggle(plan, tt.change)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPatch, patch)
			assert.Equal(t, tt.wantDeltas, deltas)
		})
	}
}

func Test_Engine_Toggle_RoundTripRestoresStock(t *testing.T) {
	engine := NewEngine(testMeals)
	plan := newTestPlan([]model.SupplementName{"B12"}, nil, nil, model.Inventory{"B12": 10})
	day := newTestDay("2024-05-01", nil, nil)

	check := Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: true, Slot: model.SlotMorning}
	require.False(t, Unchanged(day, check))

	patch, deltas, err := engine.Toggle(plan, check)
	require.NoError(t, err)
	meals, taken := patch.Apply(day)
	inv := deltas.ApplyTo(plan.Stock())
	assert.True(t, taken[model.SlotMorning]["B12"])
	assert.Equal(t, 10, plan.Stock()["B12"]) // 元の在庫は変更しない
	assert.Equal(t, 9, inv["B12"])
	assert.Len(t, meals, len(testMeals))

	uncheck := check
	uncheck.Checked = false
	_, deltas, err = engine.Toggle(plan, uncheck)
	require.NoError(t, err)
	inv = deltas.ApplyTo(inv)
	assert.Equal(t, 10, inv["B12"])
}

func Test_Unchanged(t *testing.T) {
	day := newTestDay("2024-05-01",
		model.MealChecks{"Breakfast": true},
		model.TakenChecks{model.SlotMorning: {"B12": true}})

	assert.True(t, Unchanged(day, Change{Kind: model.IntakeKindMeal, Name: "Breakfast", Checked: true}))
	assert.False(t, Unchanged(day, Change{Kind: model.IntakeKindMeal, Name: "Lunch", Checked: true}))
	assert.True(t, Unchanged(day, Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: true, Slot: model.SlotMorning}))
	assert.True(t, Unchanged(nil, Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: false, Slot: model.SlotMorning}))
	assert.False(t, Unchanged(day, Change{Kind: model.IntakeKindSupplement, Name: "B12", Checked: true, Slot: model.SlotEvening}))
}

func Test_Engine_SelectAll(t *testing.T) {
	engine := NewEngine(testMeals)

	t.Run("正常系: 複数スロットにある同名サプリは -2 を積み上げる", func(t *testing.T) {
		plan := newTestPlan(
			[]model.SupplementName{"B12", "Iron"},
			[]model.SupplementName{"B12"},
			nil,
			model.Inventory{"B12": 10},
		)
		day := newTestDay("2024-05-01", nil, nil)

		patch, deltas := engine.SelectAll(plan, day)

		assert.Equal(t, map[model.Slot]map[model.SupplementName]bool{
			model.SlotMorning: {"B12": true, "Iron": true},
			model.SlotMidday:  {"B12": true},
		}, patch.Taken)
		assert.Empty(t, patch.Meals)
		assert.Equal(t, InventoryDeltas{"B12": -2}, deltas)
	})

	t.Run("正常系: 服用済みの項目はスキップ", func(t *testing.T) {
		plan := newTestPlan(
			[]model.SupplementName{"B12"},
			[]model.SupplementName{"B12"},
			nil,
			model.Inventory{"B12": 10},
		)
		day := newTestDay("2024-05-01", nil, model.TakenChecks{model.SlotMorning: {"B12": true}})

		patch, deltas := engine.SelectAll(plan, day)

		assert.Equal(t, map[model.Slot]map[model.SupplementName]bool{
			model.SlotMidday: {"B12": true},
		}, patch.Taken)
		assert.Equal(t, InventoryDeltas{"B12": -1}, deltas)
	})

	t.Run("正常系: 2回目は何もしない", func(t *testing.T) {
		plan := newTestPlan(
			[]model.SupplementName{"B12", "Iron"},
			[]model.SupplementName{"Zinc"},
			[]model.SupplementName{"B12"},
			model.Inventory{"B12": 3, "Zinc": 1},
		)
		day := newTestDay("2024-05-01", nil, nil)

		patch, deltas := engine.SelectAll(plan, day)
		require.False(t, patch.Empty())
		meals, taken := patch.Apply(day)
		assert.Len(t, meals, len(testMeals))
		applied := newTestDay("2024-05-01", meals, taken)
		inv := deltas.ApplyTo(plan.Stock())
		assert.Equal(t, 1, inv["B12"])
		assert.Equal(t, 0, inv["Zinc"])

		patch, deltas = engine.SelectAll(plan, applied)
		assert.True(t, patch.Empty())
		assert.True(t, deltas.Empty())
	})
}

func Test_InventoryDeltas_ApplyTo_SkipsUntracked(t *testing.T) {
	inv := model.Inventory{"B12": 0}
	got := InventoryDeltas{"B12": -1, "Gone": -1}.ApplyTo(inv)

	assert.Equal(t, model.Inventory{"B12": -1}, got)
}
