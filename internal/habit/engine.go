// internal/habit/engine.go
package habit

import (
	"math"

	"go_5_habit_keep/internal/model"
)

// Engine は進捗計算・チェック切り替え・一括選択・集計を行う純粋ロジックです。
// I/O は持たず、永続化はサービス層が担当します
type Engine struct {
	meals   []model.MealLabel
	mealSet map[model.MealLabel]struct{}
}

// NewEngine は固定の食事ラベルで Engine を作ります (重複は除去)
func NewEngine(meals []model.MealLabel) *Engine {
	e := &Engine{mealSet: make(map[model.MealLabel]struct{}, len(meals))}
	for _, m := range meals {
		if _, dup := e.mealSet[m]; dup {
			continue
		}
		e.mealSet[m] = struct{}{}
		e.meals = append(e.meals, m)
	}
	return e
}

// Meals は食事ラベルを設定順で返します
func (e *Engine) Meals() []model.MealLabel {
	out := make([]model.MealLabel, len(e.meals))
	copy(out, e.meals)
	return out
}

func (e *Engine) isMeal(label model.MealLabel) bool {
	_, ok := e.mealSet[label]
	return ok
}

// Progress は現在のプランを基準に1日の達成状況を計算します。
// プランから外れたサプリの記録は total にも done にも含めない。
// day が nil (未作成) の場合はすべて未チェックとして扱う
func (e *Engine) Progress(plan *model.Plan, day *model.DayRecord) model.ProgressSnapshot {
	var total, done int
	for _, s := range model.Slots {
		for _, name := range plan.SlotItems(s) {
			total++
			if day.IsTaken(s, name) {
				done++
			}
		}
	}
	for _, m := range e.meals {
		total++
		if day.MealDone(m) {
			done++
		}
	}

	snap := model.ProgressSnapshot{Total: total, Done: done}
	if total == 0 {
		return snap
	}
	snap.Percent = roundPercent(float64(done) * 100 / float64(total))
	snap.FullyDone = done == total
	return snap
}

// roundPercent は四捨五入 (0.5 は切り上げ)
func roundPercent(v float64) int {
	return int(math.Floor(v + 0.5))
}
