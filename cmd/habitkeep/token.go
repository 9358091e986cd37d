package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"
	"go_5_habit_keep/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	tokenTenantID string
	tokenEmail    string
	tokenTTL      time.Duration
)

// tokenCmd はローカル利用のためにアクセストークンを発行します (ログイン画面は持たない)
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "ユーザーのアクセストークン (JWT) を発行します",
	Example: `  habitkeep token --email anna@example.com
  habitkeep token --tenant 3f0c... --ttl 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (tokenTenantID == "") == (tokenEmail == "") {
			return errors.New("--tenant か --email のどちらか一方を指定してください")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.JWT.SecretKey == "" {
			return errors.New("jwt.secret_key が設定されていません")
		}
		logger := newLogger(cfg.Log.Level)

		db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL, logger)
		if err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		tenant, err := findTenant(cmd.Context(), repository.NewGormTenantRepository(), db)
		if err != nil {
			return err
		}

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWT.AccessTokenTTL
		}
		signed, expiresAt, err := service.NewTokenIssuer(cfg.JWT.SecretKey, cfg.JWT.Issuer, ttl).Issue(tenant)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		fmt.Fprintf(cmd.ErrOrStderr(), "tenant=%s expires_at=%s\n", tenant.TenantID, expiresAt.Format(time.RFC3339))
		return nil
	},
}

func findTenant(ctx context.Context, repo repository.TenantRepository, db *gorm.DB) (*model.Tenant, error) {
	if tokenEmail != "" {
		tenant, err := repo.FindByEmail(ctx, db, strings.ToLower(strings.TrimSpace(tokenEmail)))
		if err != nil {
			return nil, fmt.Errorf("find tenant by email %q: %w", tokenEmail, err)
		}
		return tenant, nil
	}
	id, err := uuid.Parse(tokenTenantID)
	if err != nil {
		return nil, fmt.Errorf("invalid --tenant: %w", err)
	}
	tenant, err := repo.FindByID(ctx, db, id)
	if err != nil {
		return nil, fmt.Errorf("find tenant %s: %w", id, err)
	}
	return tenant, nil
}

func init() {
	tokenCmd.Flags().StringVar(&tokenTenantID, "tenant", "", "テナントID (UUID)")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "登録メールアドレス")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "有効期間 (省略時は jwt.access_token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}
