// Package handlers は HTTP リクエストを受けてサービス層を呼び出し、JSON を返します。
package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// currentTenant は認証ミドルウェアがセットしたテナントIDを取り出します。
// 取れなければエラーレスポンスを書いて false を返す
func currentTenant(w http.ResponseWriter, r *http.Request, handler string) (uuid.UUID, *slog.Logger, bool) {
	logger := middleware.GetLogger(r.Context()).With("handler", handler)
	tenantID, err := middleware.GetTenantIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Tenant ID missing in context", "error", err)
		webutil.HandleError(w, logger, err)
		return uuid.Nil, logger, false
	}
	return tenantID, logger, true
}

// pathParam は URL パラメータをデコード済みの値で返します。
// chi は RawPath がある時だけエスケープされたままの値を返すので、その場合に限りデコードする
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
