package service

import (
	"errors"
	"fmt"
	"os"

	"go_5_habit_keep/internal/model"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// PlanTemplate は新規ユーザーに作るプランの初期値です (configs/default_plan.yaml)
type PlanTemplate struct {
	Morning   []string       `yaml:"morning"`
	Midday    []string       `yaml:"midday"`
	Evening   []string       `yaml:"evening"`
	Inventory map[string]int `yaml:"inventory"`
}

// DefaultPlanTemplate は設定ファイルがない場合の初期プラン
func DefaultPlanTemplate() *PlanTemplate {
	return &PlanTemplate{
		Morning:   []string{"Multivitamine", "B12", "Ijzer & vitamine C", "Complex weerstand"},
		Midday:    []string{"B-complex", "(B12)"},
		Evening:   []string{},
		Inventory: map[string]int{},
	}
}

// LoadPlanTemplate は YAML からテンプレートを読み込みます。
// path が空かファイルが存在しなければ DefaultPlanTemplate を返す
func LoadPlanTemplate(path string) (*PlanTemplate, error) {
	if path == "" {
		return DefaultPlanTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultPlanTemplate(), nil
		}
		return nil, fmt.Errorf("read plan template %s: %w", path, err)
	}

	var tmpl PlanTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parse plan template %s: %w", path, err)
	}
	if _, err := tmpl.Build(uuid.Nil); err != nil {
		return nil, fmt.Errorf("invalid plan template %s: %w", path, err)
	}
	return &tmpl, nil
}

// Build はテンプレートからテナントのプランを作ります。
// 名前は前後の空白を除き、スロット内の重複は最初のものだけ残す
func (t *PlanTemplate) Build(tenantID uuid.UUID) (*model.Plan, error) {
	slots := map[model.Slot][]model.SupplementName{}
	for slot, names := range map[model.Slot][]string{
		model.SlotMorning: t.Morning,
		model.SlotMidday:  t.Midday,
		model.SlotEvening: t.Evening,
	} {
		seen := map[model.SupplementName]bool{}
		for _, raw := range names {
			name, err := model.NewSupplementName(raw)
			if err != nil {
				return nil, fmt.Errorf("slot %s: %w", slot, err)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			slots[slot] = append(slots[slot], name)
		}
	}

	inv := model.Inventory{}
	for raw, count := range t.Inventory {
		name, err := model.NewSupplementName(raw)
		if err != nil {
			return nil, fmt.Errorf("inventory: %w", err)
		}
		inv[name] = count
	}
	return model.NewPlan(tenantID, slots, inv), nil
}
