package handlers

import (
	"net/http"

	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/service"
	"go_5_habit_keep/internal/webutil"
)

type TenantHandler struct {
	service service.TenantService
}

func NewTenantHandler(s service.TenantService) *TenantHandler {
	return &TenantHandler{service: s}
}

// CreateTenant はユーザーを登録します (認証不要)
func (h *TenantHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With("handler", "CreateTenant")

	var req model.CreateTenantRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid create tenant request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	tenant, err := h.service.CreateTenant(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Tenant registered", "tenant_id", tenant.TenantID.String())
	webutil.RespondWithJSON(w, http.StatusCreated, model.TenantResponse{
		TenantID:  tenant.TenantID,
		Name:      tenant.Name,
		Email:     tenant.Email,
		CreatedAt: tenant.CreatedAt,
	})
}

// Me は現在のユーザー (ID と表示名) を返します
func (h *TenantHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With("handler", "Me")
	user, err := middleware.GetCurrentUser(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user)
}
