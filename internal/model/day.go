// internal/model/day.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MealLabel は食事チェック項目のラベル (設定で固定)
type MealLabel string

// MealChecks は食事ラベル -> チェック済みか
type MealChecks map[MealLabel]bool

func (m MealChecks) Clone() MealChecks {
	out := make(MealChecks, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TakenChecks はスロット -> サプリ名 -> 服用済みか
type TakenChecks map[Slot]map[SupplementName]bool

func (t TakenChecks) Clone() TakenChecks {
	out := make(TakenChecks, len(Slots))
	for _, s := range Slots {
		out[s] = map[SupplementName]bool{}
	}
	for s, items := range t {
		m := make(map[SupplementName]bool, len(items))
		for k, v := range items {
			m[k] = v
		}
		out[s] = m
	}
	return out
}

// DayRecord は1日分の記録。(TenantID, Date) で一意
type DayRecord struct {
	TenantID   uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"-"`
	Date       string                          `gorm:"type:varchar(10);primaryKey" json:"date"`
	Meals      datatypes.JSONType[MealChecks]  `gorm:"not null" json:"meals"`
	Taken      datatypes.JSONType[TakenChecks] `gorm:"not null" json:"taken"`
	SleepHours float64                         `gorm:"not null;default:0" json:"sleep_hours"`
	Mood       int                             `gorm:"not null;default:0" json:"mood"`
	Energy     int                             `gorm:"not null;default:0" json:"energy"`
	CreatedAt  time.Time                       `json:"-"`
	UpdatedAt  time.Time                       `json:"-"`
}

func (DayRecord) TableName() string {
	return "day_records"
}

// NewDayRecord は初回アクセス時のデフォルト記録を作ります。
// 食事はすべて未チェック、服用チェックは3スロットとも空、指標は0
func NewDayRecord(tenantID uuid.UUID, date string, meals []MealLabel) *DayRecord {
	mc := make(MealChecks, len(meals))
	for _, m := range meals {
		mc[m] = false
	}
	return &DayRecord{
		TenantID: tenantID,
		Date:     date,
		Meals:    datatypes.NewJSONType(mc),
		Taken:    datatypes.NewJSONType(TakenChecks{}.Clone()),
	}
}

// MealChecks は食事チェックのコピーを返します (nil レシーバ可)
func (d *DayRecord) MealChecks() MealChecks {
	if d == nil {
		return MealChecks{}
	}
	return d.Meals.Data().Clone()
}

// TakenChecks は服用チェックのコピーを返します (nil レシーバ可)
func (d *DayRecord) TakenChecks() TakenChecks {
	if d == nil {
		return TakenChecks{}.Clone()
	}
	return d.Taken.Data().Clone()
}

// IsTaken は未記録なら false
func (d *DayRecord) IsTaken(s Slot, name SupplementName) bool {
	if d == nil {
		return false
	}
	return d.Taken.Data()[s][name]
}

// MealDone は未記録なら false
func (d *DayRecord) MealDone(label MealLabel) bool {
	if d == nil {
		return false
	}
	return d.Meals.Data()[label]
}

// ProgressSnapshot は1日分の達成状況
type ProgressSnapshot struct {
	Total     int  `json:"total"`
	Done      int  `json:"done"`
	Percent   int  `json:"percent"`
	FullyDone bool `json:"fully_done"`
}

// --- DTO ---

const (
	IntakeKindMeal       = "meal"
	IntakeKindSupplement = "supplement"
)

// ToggleRequest は1項目のチェック切り替え
type ToggleRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=meal supplement"`
	Name    string `json:"name" validate:"required,max=100"`
	Checked *bool  `json:"checked" validate:"required"`
	Slot    string `json:"slot" validate:"omitempty,oneof=morning midday evening"`
}

// MetricsRequest は睡眠・気分・エネルギーの更新。指定されたものだけ更新する
type MetricsRequest struct {
	SleepHours *float64 `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	Mood       *int     `json:"mood" validate:"omitempty,gte=0,lte=10"`
	Energy     *int     `json:"energy" validate:"omitempty,gte=0,lte=10"`
}

func (r *MetricsRequest) Empty() bool {
	return r.SleepHours == nil && r.Mood == nil && r.Energy == nil
}

type DayResponse struct {
	Date       string           `json:"date"`
	Meals      MealChecks       `json:"meals"`
	Taken      TakenChecks      `json:"taken"`
	SleepHours float64          `json:"sleep_hours"`
	Mood       int              `json:"mood"`
	Energy     int              `json:"energy"`
	Progress   ProgressSnapshot `json:"progress"`
}

func NewDayResponse(d *DayRecord, p ProgressSnapshot) *DayResponse {
	return &DayResponse{
		Date:       d.Date,
		Meals:      d.MealChecks(),
		Taken:      d.TakenChecks(),
		SleepHours: d.SleepHours,
		Mood:       d.Mood,
		Energy:     d.Energy,
		Progress:   p,
	}
}

// ToggleResponse はチェック切り替え後の日次記録と在庫。
// 日次記録は保存済みで在庫の更新だけ失敗した場合は Warnings に入る
type ToggleResponse struct {
	Day       *DayResponse  `json:"day"`
	Inventory Inventory     `json:"inventory"`
	Warnings  []ErrorDetail `json:"warnings,omitempty"`
}

// WeekDay は週表示の1日分
type WeekDay struct {
	Date     string           `json:"date"`
	Weekday  string           `json:"weekday"`
	Progress ProgressSnapshot `json:"progress"`
}

type WeekResponse struct {
	WeekStart     string    `json:"week_start"`
	WeekEnd       string    `json:"week_end"`
	Days          []WeekDay `json:"days"`
	WeeklyPercent int       `json:"weekly_percent"`
}

// HeatmapCell は月表示の1マス
type HeatmapCell struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	Percent int    `json:"percent"`
	Level   int    `json:"level"`
	IsToday bool   `json:"is_today"`
}

type MonthResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	// LeadingBlanks は月曜始まりカレンダーで1日の前に置く空白マス数
	LeadingBlanks int           `json:"leading_blanks"`
	Days          []HeatmapCell `json:"days"`
}

type StreakResponse struct {
	Streak int    `json:"streak"`
	Today  string `json:"today"`
}

type WeeklyPercentResponse struct {
	WeekStart     string `json:"week_start"`
	WeeklyPercent int    `json:"weekly_percent"`
}
