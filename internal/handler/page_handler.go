package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/hitoshi/boardman/internal/middleware"
)

// loginPageTemplate はログインページのHTMLテンプレート。
// Telegramログインウィジェットを埋め込み、コールバックをAPIに中継する。
var loginPageTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>ログイン</title></head>
<body>
<h1>ログイン</h1>
<script async src="https://telegram.org/js/telegram-widget.js?22"
        data-telegram-login="{{.BotName}}"
        data-size="large"
        data-onauth="onTelegramAuth(user)"
        data-request-access="write"></script>
<script>
function onTelegramAuth(user) {
  fetch("/auth/telegram/callback", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    credentials: "include",
    body: JSON.stringify(user)
  }).then(function(res) {
    if (res.ok) { window.location.href = "/dashboard"; }
  });
}
</script>
</body>
</html>
`))

// dashboardPageTemplate はダッシュボードページのHTMLテンプレート。
var dashboardPageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>ダッシュボード</title></head>
<body>
<h1>ようこそ、{{.Name}}さん</h1>
<p><a href="/messages">メッセージボード</a></p>
<form method="post" action="/auth/logout"><button type="submit">ログアウト</button></form>
</body>
</html>
`))

// PageHandler はログイン・ダッシュボードのページハンドラー。
// APIルートとは異なり、認証失敗時はリダイレクトで応答するルートクラスに属する。
type PageHandler struct {
	users   UserGetter
	botName string
}

// NewPageHandler はPageHandlerを生成する。
// botNameはログインウィジェットに埋め込むTelegramボット名。
func NewPageHandler(users UserGetter, botName string) *PageHandler {
	return &PageHandler{
		users:   users,
		botName: botName,
	}
}

// LoginPage はログインページを返す。
// GET /login
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginPageTemplate.Execute(w, map[string]string{"BotName": h.botName}); err != nil {
		slog.Error("failed to render login page", slog.String("error", err.Error()))
	}
}

// Dashboard は認証済みユーザー向けのダッシュボードページを返す。
// GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPageTemplate.Execute(w, map[string]string{"Name": displayName(user)}); err != nil {
		slog.Error("failed to render dashboard page", slog.String("error", err.Error()))
	}
}
