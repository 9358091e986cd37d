package handlers

import (
	"net/http"

	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/service"
	"go_5_habit_keep/internal/webutil"
)

type PlanHandler struct {
	service service.PlanService
}

func NewPlanHandler(s service.PlanService) *PlanHandler {
	return &PlanHandler{service: s}
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "GetPlan")
	if !ok {
		return
	}
	plan, err := h.service.GetPlan(r.Context(), tenantID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPlanResponse(plan))
}

// AddSupplement は {slot} にサプリを追加します
func (h *PlanHandler) AddSupplement(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "AddSupplement")
	if !ok {
		return
	}
	var req model.AddSupplementRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid add supplement request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	slot := model.Slot(pathParam(r, "slot"))
	plan, err := h.service.AddSupplement(r.Context(), tenantID, slot, req.Name)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Supplement added", "slot", slot, "name", req.Name)
	webutil.RespondWithJSON(w, http.StatusCreated, model.NewPlanResponse(plan))
}

func (h *PlanHandler) RemoveSupplement(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "RemoveSupplement")
	if !ok {
		return
	}
	slot := model.Slot(pathParam(r, "slot"))
	name := pathParam(r, "name")
	plan, err := h.service.RemoveSupplement(r.Context(), tenantID, slot, name)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger.Info("Supplement removed", "slot", slot, "name", name)
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPlanResponse(plan))
}

// SetStock は在庫数を上書きします。未追跡の名前なら追跡を始める
func (h *PlanHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "SetStock")
	if !ok {
		return
	}
	var req model.SetStockRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid set stock request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}
	name := pathParam(r, "name")
	plan, err := h.service.SetStock(r.Context(), tenantID, name, *req.Count)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPlanResponse(plan))
}

func (h *PlanHandler) UntrackStock(w http.ResponseWriter, r *http.Request) {
	tenantID, logger, ok := currentTenant(w, r, "UntrackStock")
	if !ok {
		return
	}
	plan, err := h.service.UntrackStock(r.Context(), tenantID, pathParam(r, "name"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewPlanResponse(plan))
}
