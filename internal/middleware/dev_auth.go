// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/webutil"

	"github.com/google/uuid"
)

// DevTenantContextMiddleware は開発時用ミドルウェアです (auth.enabled=false)。
// X-Tenant-ID ヘッダーからUUIDを抽出し、コンテキストに設定します。
// X-Display-Name があれば表示名として使います。
// DBでのテナント存在チェックは行いません。
func DevTenantContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		tenantIDStr := r.Header.Get("X-Tenant-ID")
		if tenantIDStr == "" {
			logger.Warn("[DEV AUTH] Failed: X-Tenant-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Tenant-IDヘッダーが必要です。", "", model.ErrUnauthorized))
			return
		}

		tenantID, err := uuid.Parse(tenantIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-Tenant-ID format", "value", tenantIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Tenant-IDの形式が正しくありません。", "", model.ErrUnauthorized))
			return
		}

		logger.Debug("[DEV AUTH] Tenant ID set to context (no validation)", "tenant_id", tenantID.String())

		ctx := context.WithValue(r.Context(), model.TenantIDKey, tenantID)
		ctx = context.WithValue(ctx, model.DisplayNameKey, r.Header.Get("X-Display-Name"))
		ctx = context.WithValue(ctx, logCtxKey{}, logger.With("tenant_id", tenantID.String()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
