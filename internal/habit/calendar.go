// internal/habit/calendar.go
package habit

import (
	"fmt"
	"time"

	"go_5_habit_keep/internal/model"
)

// DateLayout は日次記録のキー形式 (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// DaysPerWeek は週の日数 (月曜始まり)
const DaysPerWeek = 7

// ParseDate は YYYY-MM-DD を UTC の0時として解釈します
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, model.ErrInvalidInput)
	}
	return t, nil
}

// FormatDate は t の暦日を YYYY-MM-DD で返します (t のロケーション基準)
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDay は t のロケーションでの暦日を UTC の0時に揃えます
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfWeek はその週の月曜日を返します。日曜は6日戻る
func StartOfWeek(t time.Time) time.Time {
	day := CalendarDay(t)
	wd := int(day.Weekday())
	if wd == 0 {
		return AddDays(day, -6)
	}
	return AddDays(day, -(wd - 1))
}

// WeekDates は月曜から日曜までの7日分の日付文字列
func WeekDates(start time.Time) [DaysPerWeek]string {
	var out [DaysPerWeek]string
	for i := 0; i < DaysPerWeek; i++ {
		out[i] = FormatDate(AddDays(start, i))
	}
	return out
}

// ParseMonth は YYYY-MM を解釈して月初日を返します
func ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, model.ErrInvalidInput)
	}
	return t, nil
}

// MonthRange は月初日と月末日
func MonthRange(first time.Time) (time.Time, time.Time) {
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// LeadingBlanks は月曜始まりのカレンダーで月初日の前に置く空白マス数
func LeadingBlanks(first time.Time) int {
	return (int(first.Weekday()) + 6) % 7
}

// HeatLevel は達成率をヒートマップの濃さ (0〜5) に変換します
func HeatLevel(percent int) int {
	switch {
	case percent > 80:
		return 5
	case percent > 60:
		return 4
	case percent > 40:
		return 3
	case percent > 20:
		return 2
	case percent > 0:
		return 1
	}
	return 0
}
