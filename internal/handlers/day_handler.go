package handlers

import (
	"net/http"

	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/service"
	"go_5_habit_keep/internal/webutil"
)

type DayHandler struct {
	service service.DayService
}

func NewDayHandler(s service.DayService) *DayHandler {
	return &DayHandler{service: s}
}

func (h *DayHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "GetDay")
	if !ok {
		return
	}
	day, err := h.service.GetDay(r.Context(), tenantID, pathParam(r, "date"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, day)
}

// ToggleIntake は食事かサプリのチェックを切り替えます。
// 在庫の更新だけ失敗した場合も 200 で返し、warnings に入れる
func (h *DayHandler) ToggleIntake(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "ToggleIntake")
	if !ok {
		return
	}
	var req model.ToggleRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid toggle request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	date := pathParam(r, "date")
	resp, err := h.service.ToggleIntake(r.Context(), tenantID, date, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if len(resp.Warnings) > 0 {
		logger.Warn("Toggle saved with warnings", "date", date, "warnings", len(resp.Warnings))
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *DayHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "SelectAll")
	if !ok {
		return
	}
	resp, err := h.service.SelectAllSupplements(r.Context(), tenantID, pathParam(r, "date"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *DayHandler) UpdateMetrics(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "UpdateMetrics")
	if !ok {
		return
	}
	var req model.MetricsRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid metrics request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}
	day, err := h.service.UpdateMetrics(r.Context(), tenantID, pathParam(r, "date"), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, day)
}

func (h *DayHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "GetWeek")
	if !ok {
		return
	}
	week, err := h.service.GetWeek(r.Context(), tenantID, pathParam(r, "date"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, week)
}

func (h *DayHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "GetMonth")
	if !ok {
		return
	}
	month, err := h.service.GetMonth(r.Context(), tenantID, pathParam(r, "month"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, month)
}
