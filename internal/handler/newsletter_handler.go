package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/boardman/internal/model"
)

// NewsletterServiceInterface はニュースレターハンドラーが必要とするサービスインターフェース。
type NewsletterServiceInterface interface {
	// Subscribe は購読申し込みを受け付け、運営者への通知メールを中継する。
	Subscribe(ctx context.Context, email string) error
}

// NewsletterHandler はニュースレター購読のHTTPハンドラー。
type NewsletterHandler struct {
	service NewsletterServiceInterface
}

// NewNewsletterHandler はNewsletterHandlerを生成する。
func NewNewsletterHandler(service NewsletterServiceInterface) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// subscribeRequest は購読申し込みリクエストのボディ。
type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe は購読申し込みを処理する。
// POST /newsletter/subscribe
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidEmailError())
		return
	}

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
