package service

import (
	"fmt"
	"time"

	"go_5_habit_keep/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer は JWT (HS256) のアクセストークンを発行します。
// sub にテナントID、name に表示名を入れる
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(tenant *model.Tenant) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := model.JWTCustomClaims{
		Name: tenant.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenant.TenantID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}
