package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockAlerter は在庫がしきい値を下回った時にメールで知らせます。
// 送信の失敗はログに残すだけで呼び出し元には返さない
type StockAlerter struct {
	db         *gorm.DB
	tenantRepo repository.TenantRepository
	mailer     Mailer
	threshold  int
}

func NewStockAlerter(db *gorm.DB, tenantRepo repository.TenantRepository, mailer Mailer, threshold int) *StockAlerter {
	return &StockAlerter{db: db, tenantRepo: tenantRepo, mailer: mailer, threshold: threshold}
}

// LowStockItems は before ではしきい値より多く、after でしきい値以下になった名前を返します
func LowStockItems(before, after model.Inventory, threshold int) []model.SupplementName {
	var names []model.SupplementName
	for name, count := range after {
		prev, tracked := before[name]
		if tracked && prev > threshold && count <= threshold {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Check は在庫の変化を見て必要ならメールを送ります。nil レシーバでは何もしない
func (a *StockAlerter) Check(ctx context.Context, tenantID uuid.UUID, before, after model.Inventory) {
	if a == nil {
		return
	}
	names := LowStockItems(before, after, a.threshold)
	if len(names) == 0 {
		return
	}
	logger := middleware.GetLogger(ctx)

	tenant, err := a.tenantRepo.FindByID(ctx, a.db, tenantID)
	if err != nil {
		logger.Warn("Low stock alert skipped: tenant not found", "tenant_id", tenantID.String(), "error", err)
		return
	}

	var b strings.Builder
	b.WriteString("以下のサプリの残りが少なくなっています。\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: 残り %d\n", name, after[name])
	}

	if err := a.mailer.Send(ctx, tenant.Email, "サプリの残りが少なくなっています", b.String()); err != nil {
		logger.Error("Failed to send low stock alert", "error", err, "tenant_id", tenantID.String())
		return
	}
	logger.Info("Low stock alert sent", "tenant_id", tenantID.String(), "items", len(names))
}
