// internal/habit/stats.go
package habit

import (
	"time"

	"go_5_habit_keep/internal/model"
)

// MaxStreakDays はストリークを遡る上限日数
const MaxStreakDays = 365

// DayLookup は日付から日次記録を引きます。記録がなければ false
type DayLookup func(date string) (*model.DayRecord, bool)

// WeeklyAverage は月曜からの7日分の達成率の平均 (四捨五入)。
// 記録がない日 (nil) は 0% として数える
func (e *Engine) WeeklyAverage(plan *model.Plan, week [DaysPerWeek]*model.DayRecord) int {
	sum := 0
	for _, d := range week {
		sum += e.Progress(plan, d).Percent
	}
	return roundPercent(float64(sum) / DaysPerWeek)
}

// Streak は anchor から遡って、全項目達成の日が何日連続しているかを返します。
// 未達成の日か記録のない日で止まる。最大 MaxStreakDays 日
func (e *Engine) Streak(plan *model.Plan, lookup DayLookup, anchor time.Time) int {
	day := CalendarDay(anchor)
	count := 0
	for i := 0; i < MaxStreakDays; i++ {
		rec, ok := lookup(FormatDate(AddDays(day, -i)))
		if !ok || !e.Progress(plan, rec).FullyDone {
			break
		}
		count++
	}
	return count
}
