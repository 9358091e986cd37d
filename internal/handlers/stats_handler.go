package handlers

import (
	"net/http"

	"go_5_habit_keep/internal/service"
	"go_5_habit_keep/internal/webutil"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(s service.StatsService) *StatsHandler {
	return &StatsHandler{service: s}
}

func (h *StatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "Streak")
	if !ok {
		return
	}
	streak, err := h.service.CurrentStreak(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, streak)
}

// WeeklyPercent は ?start=YYYY-MM-DD の週の平均達成率を返します
func (h *StatsHandler) WeeklyPercent(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "WeeklyPercent")
	if !ok {
		return
	}
	resp, err := h.service.WeeklyPercent(r.Context(), tenantID, r.URL.Query().Get("start"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}
