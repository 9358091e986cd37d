// internal/model/plan.go
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Slot はサプリを飲む時間帯 (朝・昼・夜) です
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotMidday  Slot = "midday"
	SlotEvening Slot = "evening"
)

// Slots は表示順に並んだ全スロット
var Slots = []Slot{SlotMorning, SlotMidday, SlotEvening}

// ParseSlot は文字列をSlotに変換します
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotMorning, SlotMidday, SlotEvening:
		return Slot(s), nil
	}
	return "", fmt.Errorf("unknown slot %q: %w", s, ErrInvalidInput)
}

// SupplementName はサプリ名。プラン・在庫・日次記録のキーとして使われます
type SupplementName string

const maxSupplementNameLen = 100

// NewSupplementName は前後の空白を取り除き、空や長すぎる名前を弾きます
func NewSupplementName(s string) (SupplementName, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", fmt.Errorf("empty supplement name: %w", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxSupplementNameLen {
		return "", fmt.Errorf("supplement name too long: %w", ErrInvalidInput)
	}
	return SupplementName(name), nil
}

// Inventory はサプリ名 -> 残数。キーが存在する = 在庫管理対象。
// 残数はマイナスにもなり得る (補充のサインとして扱う)
type Inventory map[SupplementName]int

func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Plan はユーザーごとのサプリ計画 (3スロット + 在庫)
type Plan struct {
	TenantID  uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"-"`
	Morning   datatypes.JSONSlice[SupplementName] `gorm:"not null" json:"morning"`
	Midday    datatypes.JSONSlice[SupplementName] `gorm:"not null" json:"midday"`
	Evening   datatypes.JSONSlice[SupplementName] `gorm:"not null" json:"evening"`
	Inventory datatypes.JSONType[Inventory]       `gorm:"not null" json:"inventory"`
	CreatedAt time.Time                           `json:"-"`
	UpdatedAt time.Time                           `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// NewPlan は指定のスロット内容と在庫で Plan を作ります (nil は空として扱う)
func NewPlan(tenantID uuid.UUID, slots map[Slot][]SupplementName, inv Inventory) *Plan {
	p := &Plan{TenantID: tenantID}
	for _, s := range Slots {
		items := make([]SupplementName, 0, len(slots[s]))
		items = append(items, slots[s]...)
		p.SetSlotItems(s, items)
	}
	if inv == nil {
		inv = Inventory{}
	}
	p.Inventory = datatypes.NewJSONType(inv.Clone())
	return p
}

// SlotItems はスロット内のサプリ名を登録順で返します
func (p *Plan) SlotItems(s Slot) []SupplementName {
	if p == nil {
		return nil
	}
	switch s {
	case SlotMorning:
		return p.Morning
	case SlotMidday:
		return p.Midday
	case SlotEvening:
		return p.Evening
	}
	return nil
}

func (p *Plan) SetSlotItems(s Slot, items []SupplementName) {
	switch s {
	case SlotMorning:
		p.Morning = items
	case SlotMidday:
		p.Midday = items
	case SlotEvening:
		p.Evening = items
	}
}

// Stock は在庫マップを返します (nil にはならない)
func (p *Plan) Stock() Inventory {
	if p == nil {
		return Inventory{}
	}
	inv := p.Inventory.Data()
	if inv == nil {
		return Inventory{}
	}
	return inv
}

// IsTracked は在庫管理対象かどうか
func (p *Plan) IsTracked(name SupplementName) bool {
	_, ok := p.Stock()[name]
	return ok
}

// --- DTO ---

type AddSupplementRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SetStockRequest struct {
	Count *int `json:"count" validate:"required,gte=0"`
}

// PlanResponse はプランのレスポンスDTO
type PlanResponse struct {
	Morning   []SupplementName `json:"morning"`
	Midday    []SupplementName `json:"midday"`
	Evening   []SupplementName `json:"evening"`
	Inventory Inventory        `json:"inventory"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewPlanResponse(p *Plan) *PlanResponse {
	resp := &PlanResponse{
		Morning:   []SupplementName{},
		Midday:    []SupplementName{},
		Evening:   []SupplementName{},
		Inventory: p.Stock().Clone(),
		UpdatedAt: p.UpdatedAt,
	}
	resp.Morning = append(resp.Morning, p.Morning...)
	resp.Midday = append(resp.Midday, p.Midday...)
	resp.Evening = append(resp.Evening, p.Evening...)
	return resp
}
