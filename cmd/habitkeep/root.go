package main

import (
	"fmt"
	"os"

	"go_5_habit_keep/internal/config"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           config.AppName,
	Short:         "habitkeep は食事とサプリの毎日のチェックを記録します",
	Long:          "habitkeep は食事・サプリのチェック、在庫、連続達成日数を扱う API サーバーと管理コマンドです。",
	Version:       config.AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "config.yaml を置いたディレクトリ")
}

// loadConfig は --config のディレクトリから設定を読み込みます
func loadConfig() (*config.Config, error) {
	if err := config.LoadConfig(configDir); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &config.Cfg, nil
}
