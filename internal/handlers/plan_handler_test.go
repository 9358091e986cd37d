package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"go_5_habit_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlanHandler(t *testing.T) {
	app := newTestApp(t)
	tenantID := uuid.New()

	t.Run("正常系: 初回取得でテンプレートから作成", func(t *testing.T) {
		body := sendRequest(t, app.server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/plan", TenantID: tenantID}, http.StatusOK)
		plan := decodeJSON[model.PlanResponse](t, body)
		assert.Equal(t, []model.SupplementName{"B12"}, plan.Morning)
		assert.Equal(t, []model.SupplementName{}, plan.Midday)
		assert.Equal(t, model.Inventory{"B12": 10}, plan.Inventory)
	})

	t.Run("正常系: 空白を含む名前を追加して削除", func(t *testing.T) {
		body := sendRequest(t, app.server, httpRequestDetails{
			Method: http.MethodPost, Path: "/api/v1/plan/slots/midday/supplements", TenantID: tenantID,
			Body: map[string]string{"name": "Vitamin D3"},
		}, http.StatusCreated)
		plan := decodeJSON[model.PlanResponse](t, body)
		assert.Equal(t, []model.SupplementName{"Vitamin D3"}, plan.Midday)
		assert.Equal(t, 30, plan.Inventory["Vitamin D3"])

		body = sendRequest(t, app.server, httpRequestDetails{
			Method: http.MethodDelete, Path: "/api/v1/plan/slots/midday/supplements/Vitamin%20D3", TenantID: tenantID,
		}, http.StatusOK)
		plan = decodeJSON[model.PlanResponse](t, body)
		assert.Empty(t, plan.Midday)
		// 在庫はそのまま
		assert.Equal(t, 30, plan.Inventory["Vitamin D3"])
	})

	t.Run("正常系: 在庫の上書きと追跡解除", func(t *testing.T) {
		body := sendRequest(t, app.server, httpRequestDetails{
			Method: http.MethodPut, Path: "/api/v1/plan/inventory/B12", TenantID: tenantID,
			Body: map[string]int{"count": 4},
		}, http.StatusOK)
		assert.Equal(t, 4, decodeJSON[model.PlanResponse](t, body).Inventory["B12"])

		body = sendRequest(t, app.server, httpRequestDetails{
			Method: http.MethodDelete, Path: "/api/v1/plan/inventory/B12", TenantID: tenantID,
		}, http.StatusOK)
		assert.NotContains(t, decodeJSON[model.PlanResponse](t, body).Inventory, model.SupplementName("B12"))
	})

	t.Run("正常系: 記号を含む名前もパスで正しく扱う", func(t *testing.T) {
		tenantID := uuid.New()
		names := []string{"A%20B", "Omega 3/6", "Zinc 50%"}
		for i, name := range names {
			sendRequest(t, app.server, httpRequestDetails{
				Method: http.MethodPost, Path: "/api/v1/plan/slots/evening/supplements", TenantID: tenantID,
				Body: map[string]string{"name": name},
			}, http.StatusCreated)

			body := sendRequest(t, app.server, httpRequestDetails{
				Method: http.MethodPut, Path: "/api/v1/plan/inventory/" + url.PathEscape(name), TenantID: tenantID,
				Body: map[string]int{"count": 7},
			}, http.StatusOK)
			plan := decodeJSON[model.PlanResponse](t, body)
			assert.Equal(t, 7, plan.Inventory[model.SupplementName(name)], name)
			// B12 と追加済みの名前だけ。別名のキーは増えない
			assert.Len(t, plan.Inventory, i+2, name)

			body = sendRequest(t, app.server, httpRequestDetails{
				Method: http.MethodDelete, Path: "/api/v1/plan/slots/evening/supplements/" + url.PathEscape(name), TenantID: tenantID,
			}, http.StatusOK)
			plan = decodeJSON[model.PlanResponse](t, body)
			assert.NotContains(t, plan.Evening, model.SupplementName(name))
			assert.Equal(t, 7, plan.Inventory[model.SupplementName(name)], name)
		}
	})

	errorTests := []struct {
		name         string
		req          httpRequestDetails
		expectedCode int
		errorCode    string
	}{
		{
			name:         "異常系: 不明な時間帯",
			req:          httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/plan/slots/night/supplements", Body: map[string]string{"name": "Iron"}},
			expectedCode: http.StatusBadRequest,
			errorCode:    "INVALID_SLOT",
		},
		{
			name:         "異常系: 同じ時間帯に重複",
			req:          httpRequestDetails{Method: http.MethodPost, Path: "/api/v1/plan/slots/morning/supplements", Body: map[string]string{"name": "B12"}},
			expectedCode: http.StatusConflict,
			errorCode:    "SUPPLEMENT_ALREADY_IN_SLOT",
		},
		{
			name:         "異常系: 時間帯にないサプリの削除",
			req:          httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/plan/slots/evening/supplements/B12"},
			expectedCode: http.StatusNotFound,
			errorCode:    "SUPPLEMENT_NOT_IN_SLOT",
		},
		{
			name:         "異常系: 負の在庫数",
			req:          httpRequestDetails{Method: http.MethodPut, Path: "/api/v1/plan/inventory/B12", Body: map[string]int{"count": -1}},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_ERROR",
		},
		{
			name:         "異常系: count なし",
			req:          httpRequestDetails{Method: http.MethodPut, Path: "/api/v1/plan/inventory/B12", Body: map[string]int{}},
			expectedCode: http.StatusBadRequest,
			errorCode:    "VALIDATION_ERROR",
		},
		{
			name:         "異常系: 追跡していない在庫の解除",
			req:          httpRequestDetails{Method: http.MethodDelete, Path: "/api/v1/plan/inventory/Zinc"},
			expectedCode: http.StatusNotFound,
			errorCode:    "STOCK_NOT_TRACKED",
		},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.TenantID = uuid.New()
			body := sendRequest(t, app.server, tt.req, tt.expectedCode)
			verifyErrorCode(t, body, tt.errorCode)
		})
	}

	t.Run("異常系: X-Tenant-ID なし", func(t *testing.T) {
		body := sendRequest(t, app.server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/plan"}, http.StatusUnauthorized)
		verifyErrorCode(t, body, "UNAUTHORIZED")
	})
}
