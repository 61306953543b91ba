// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/boardman/internal/model"
)

// SessionCookieName はセッショントークンを保持するCookieの名前。
const SessionCookieName = "session_token"

const bearerPrefix = "Bearer "

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenValidator はセッショントークンの検証に必要なインターフェース。
// auth.TokenServiceの部分集合として定義する。
type TokenValidator interface {
	Validate(raw string) (string, error)
}

// NewSessionMiddleware はAPIルート向けのセッションゲートを返す。
// Cookie（優先）またはAuthorization: Bearerヘッダーからトークンを取り出し、
// 検証に成功した場合は認証済みユーザーIDをリクエストコンテキストに注入する。
// トークンが無い・無効・期限切れの場合は一律に401 Unauthorizedを返す。
func NewSessionMiddleware(validator TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(r, validator)
			if !ok {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialError())
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewPageSessionMiddleware はページルート向けのセッションゲートを返す。
// 検証失敗時は401ではなくloginPathへリダイレクトする。
// APIルートとページルートで失敗時の応答ポリシーを使い分けるのは意図的で、
// ルートクラスごとに一貫したポリシーを適用する。
func NewPageSessionMiddleware(validator TokenValidator, loginPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := authenticate(r, validator)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate はリクエストからトークンを抽出し検証する。
// CookieとBearerヘッダーの両方が存在する場合はCookieを優先する。
func authenticate(r *http.Request, validator TokenValidator) (string, bool) {
	token := ExtractToken(r)
	if token == "" {
		return "", false
	}

	userID, err := validator.Validate(token)
	if err != nil {
		return "", false
	}
	return userID, true
}

// ExtractToken はリクエストからセッショントークンを取り出す。
// Cookieを優先し、無ければAuthorization: Bearerヘッダーを参照する。
// どちらにも無い場合は空文字列を返す。
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimPrefix(authHeader, bearerPrefix)
	}

	return ""
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションゲートを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
