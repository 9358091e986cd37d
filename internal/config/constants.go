// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "habitkeep"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultDatabaseDriver    = "postgres"
	DefaultLogLevel          = "info"
	DefaultAuthEnabled       = true
	DefaultAccessTokenTTL    = 30 * 24 * time.Hour
	DefaultTimezone          = "UTC"
	DefaultStock             = 30
	DefaultLowStockThreshold = 5
)

// DefaultMeals は食事チェックの既定ラベル
var DefaultMeals = []string{"Breakfast", "Snack 1", "Lunch", "Snack 2", "Dinner", "2L water (min)"}
