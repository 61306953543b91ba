package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenIssuer はJWTのiss claimに設定する発行者名。
const tokenIssuer = "boardman"

// ErrInvalidToken は無効なセッショントークンを表す。
// 形式不正・署名不正・期限切れは呼び出し側から区別できない。
var ErrInvalidToken = errors.New("invalid token")

// TokenService はセッショントークンの発行と検証を提供する。
// トークンはHS256で署名されたJWTで、サーバー側には一切保持しない
// （有効性は署名と期限のみで決まるステートレス設計）。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService はTokenServiceを生成する。
// ttlはトークンの有効期間（既定は24時間をconfigで指定する）。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue は指定ユーザーIDのセッショントークンを発行する。
// 有効期限は発行時刻からTTL後に設定される。
func (s *TokenService) Issue(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("userID is required")
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate はトークンの署名と有効期限を検証し、ユーザーIDを返す。
// 無効な場合は理由を区別せず一律にErrInvalidTokenを返す
// （呼び出し側にはerrorを返すのみで、panicや詳細漏洩はしない）。
func (s *TokenService) Validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	if claims.Issuer != tokenIssuer {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	if claims.ExpiresAt == nil || time.Now().UTC().After(claims.ExpiresAt.Time) {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
