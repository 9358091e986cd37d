// internal/habit/toggle.go
package habit

import (
	"fmt"

	"go_5_habit_keep/internal/model"
)

// DayPatch は日次記録への差分。含まれるキーだけを上書きし、他は触らない
type DayPatch struct {
	Meals map[model.MealLabel]bool
	Taken map[model.Slot]map[model.SupplementName]bool
}

func (p DayPatch) Empty() bool {
	if len(p.Meals) > 0 {
		return false
	}
	for _, items := range p.Taken {
		if len(items) > 0 {
			return false
		}
	}
	return true
}

func (p *DayPatch) setTaken(s model.Slot, name model.SupplementName, v bool) {
	if p.Taken == nil {
		p.Taken = map[model.Slot]map[model.SupplementName]bool{}
	}
	if p.Taken[s] == nil {
		p.Taken[s] = map[model.SupplementName]bool{}
	}
	p.Taken[s][name] = v
}

// Apply は差分を記録にマージした新しいチェック状態を返します
func (p DayPatch) Apply(day *model.DayRecord) (model.MealChecks, model.TakenChecks) {
	meals := day.MealChecks()
	for k, v := range p.Meals {
		meals[k] = v
	}
	taken := day.TakenChecks()
	for s, items := range p.Taken {
		if taken[s] == nil {
			taken[s] = map[model.SupplementName]bool{}
		}
		for name, v := range items {
			taken[s][name] = v
		}
	}
	return meals, taken
}

// InventoryDeltas はサプリ名 -> 在庫の増減量。上書きではなく加算で適用する
type InventoryDeltas map[model.SupplementName]int

func (d InventoryDeltas) Empty() bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// ApplyTo は在庫管理対象のキーにだけ差分を加算した在庫を返します。
// 適用時点で管理対象外になったキーは無視する
func (d InventoryDeltas) ApplyTo(inv model.Inventory) model.Inventory {
	out := inv.Clone()
	for name, delta := range d {
		if cur, ok := out[name]; ok {
			out[name] = cur + delta
		}
	}
	return out
}

// Change は1項目のチェック切り替え
type Change struct {
	Kind    string
	Name    string
	Checked bool
	Slot    model.Slot
}

// Toggle は1項目の切り替えを日次記録の差分と在庫差分に変換します。
// 管理対象のサプリは true で -1、false で +1。
// 「すでに同じ値」の判定は呼び出し側の責務 (Unchanged を使う)
func (e *Engine) Toggle(plan *model.Plan, change Change) (DayPatch, InventoryDeltas, error) {
	var patch DayPatch
	deltas := InventoryDeltas{}

	switch change.Kind {
	case model.IntakeKindMeal:
		label := model.MealLabel(change.Name)
		if !e.isMeal(label) {
			return patch, nil, fmt.Errorf("unknown meal label %q: %w", change.Name, model.ErrInvalidInput)
		}
		patch.Meals = map[model.MealLabel]bool{label: change.Checked}
		return patch, deltas, nil

	case model.IntakeKindSupplement:
		if change.Slot == "" {
			return patch, nil, fmt.Errorf("slot is required for supplement toggle: %w", model.ErrInvalidInput)
		}
		if _, err := model.ParseSlot(string(change.Slot)); err != nil {
			return patch, nil, err
		}
		name, err := model.NewSupplementName(change.Name)
		if err != nil {
			return patch, nil, err
		}
		if !containsName(plan.SlotItems(change.Slot), name) {
			return patch, nil, fmt.Errorf("supplement %q is not in slot %s: %w", name, change.Slot, model.ErrNotFound)
		}
		patch.setTaken(change.Slot, name, change.Checked)
		if plan.IsTracked(name) {
			if change.Checked {
				deltas[name] = -1
			} else {
				deltas[name] = 1
			}
		}
		return patch, deltas, nil
	}
	return patch, nil, fmt.Errorf("unknown kind %q: %w", change.Kind, model.ErrInvalidInput)
}

// Unchanged は記録済みの値がすでに目標値と同じかどうか
func Unchanged(day *model.DayRecord, change Change) bool {
	switch change.Kind {
	case model.IntakeKindMeal:
		return day.MealDone(model.MealLabel(change.Name)) == change.Checked
	case model.IntakeKindSupplement:
		name, err := model.NewSupplementName(change.Name)
		if err != nil {
			return false
		}
		return day.IsTaken(change.Slot, name) == change.Checked
	}
	return false
}

// SelectAll はまだ服用していない全スロットのサプリを true にする差分を作ります。
// 同じ名前が複数スロットにある場合、在庫差分はスロットごとに -1 を積み上げる
func (e *Engine) SelectAll(plan *model.Plan, day *model.DayRecord) (DayPatch, InventoryDeltas) {
	var patch DayPatch
	deltas := InventoryDeltas{}
	for _, s := range model.Slots {
		for _, name := range plan.SlotItems(s) {
			if day.IsTaken(s, name) {
				continue
			}
			patch.setTaken(s, name, true)
			if plan.IsTracked(name) {
				deltas[name]--
			}
		}
	}
	return patch, deltas
}

func containsName(items []model.SupplementName, name model.SupplementName) bool {
	for _, it := range items {
		if it == name {
			return true
		}
	}
	return false
}
