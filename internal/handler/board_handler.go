package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/boardman/internal/middleware"
	"github.com/hitoshi/boardman/internal/model"
)

// BoardServiceInterface はメッセージボードハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	// Post は新しい投稿を作成する。
	Post(ctx context.Context, author, text string) (*model.Message, error)
	// Get は指定IDの投稿を取得する。
	Get(ctx context.Context, id string) (*model.Message, error)
	// List は投稿を新しい順で返す。
	List(ctx context.Context) ([]*model.Message, error)
}

// UserGetter は投稿者名の解決に使うユーザー取得インターフェース。
type UserGetter interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// BoardHandler はメッセージボードのHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
	users   UserGetter
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface, users UserGetter) *BoardHandler {
	return &BoardHandler{
		service: service,
		users:   users,
	}
}

// postMessageRequest は投稿リクエストのボディ。
type postMessageRequest struct {
	Text string `json:"text"`
}

// messageResponse は投稿のAPIレスポンス。
type messageResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PostMessage は新しい投稿を作成する。
// POST /api/messages
//
// 投稿者名は認証済みユーザーのプロフィールから解決する（リクエストからは受け取らない）。
func (h *BoardHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialError())
		return
	}

	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidMessageError("リクエストボディの解析に失敗しました"))
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message, err := h.service.Post(r.Context(), displayName(user), req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toMessageResponse(message))
}

// GetMessage は投稿の詳細を取得する。
// GET /messages/:id
func (h *BoardHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "id")

	message, err := h.service.Get(r.Context(), messageID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMessageResponse(message))
}

// ListMessages は投稿一覧を新しい順で返す。
// GET /messages
func (h *BoardHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]messageResponse, len(messages))
	for i, m := range messages {
		results[i] = toMessageResponse(m)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// displayName は投稿者として表示する名前を返す。usernameがあれば優先する。
func displayName(user *model.User) string {
	if user.Username != "" {
		return user.Username
	}
	return user.FirstName
}

// toMessageResponse はmodel.MessageからAPIレスポンスに変換する。
func toMessageResponse(message *model.Message) messageResponse {
	return messageResponse{
		ID:        message.ID,
		Author:    message.Author,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}
}
