package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTCustomClaims はJWTに含めるカスタムクレーム（ペイロード）
// sub にテナントID、name に表示名を入れる
type JWTCustomClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
