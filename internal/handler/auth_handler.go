// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/boardman/internal/auth"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// LoginWithTelegram はログインペイロードを検証し、セッショントークンを発行する。
	LoginWithTelegram(ctx context.Context, payload auth.LoginPayload) (*auth.LoginResult, error)
	// ValidateToken はセッショントークンを検証しユーザーIDを返す。
	ValidateToken(raw string) (string, error)
	// GetUser は指定IDのユーザーを取得する。
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はTelegramログイン認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// loginResponse はログイン成功時のAPIレスポンス。
type loginResponse struct {
	Success   bool         `json:"success"`
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	IsNewUser bool         `json:"isNewUser"`
}

// TelegramCallback はTelegramログインウィジェットからのコールバックを処理する。
// POST /auth/telegram/callback
//
// ボディはウィジェットが生成したペイロードのJSON。署名検証に成功した場合は
// ユーザーを解決または作成し、セッショントークンをCookieとレスポンスの
// 両方で返す。
func (h *AuthHandler) TelegramCallback(w http.ResponseWriter, r *http.Request) {
	// 数値フィールド（id, auth_date）の表記を維持するためjson.Numberでデコードする
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPayloadError("JSONの解析に失敗しました"))
		return
	}

	payload, err := auth.ParseLoginPayload(raw)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPayloadError(err.Error()))
		return
	}

	result, err := h.service.LoginWithTelegram(r.Context(), payload)
	if err != nil {
		h.handleLoginError(w, err)
		return
	}

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		Success:   true,
		User:      toUserResponse(result.User),
		Token:     result.Token,
		IsNewUser: result.IsNewUser,
	})
}

// handleLoginError はログイン処理のエラーをHTTPレスポンスに変換する。
// 署名検証失敗は403、ペイロード不正は400、アイデンティティ競合は409を返す。
func (h *AuthHandler) handleLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrAuthenticationFailed):
		writeAPIErrorResponse(w, http.StatusForbidden, model.NewAuthenticationFailedError())
	case errors.Is(err, auth.ErrInvalidPayload):
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidPayloadError(err.Error()))
	case errors.Is(err, auth.ErrIdentityConflict):
		writeAPIErrorResponse(w, http.StatusConflict, model.NewIdentityConflictError())
	default:
		slog.Error("login failed", slog.String("error", err.Error()))
		writeInternalError(w)
	}
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialError())
		return
	}

	userID, err := h.service.ValidateToken(token)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialError())
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// Logout はセッションCookieを破棄する。
// POST /auth/logout
//
// トークンはステートレスなためサーバー側の失効処理は無く、
// Cookieのクリアのみを行う。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
	}
}
