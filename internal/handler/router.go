package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/boardman/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	MetricsRecorder   middleware.HTTPMetricsRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// メッセージボード
	BoardService BoardServiceInterface

	// ニュースレター
	NewsletterService NewsletterServiceInterface

	// ユーザー
	UserService UserServiceInterface

	// ページ
	TelegramBotName string

	// 運用
	HealthPinger   Pinger
	MetricsHandler http.Handler
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → SecurityHeaders → CORS
//
// 認証が必要なAPIルートには Session → RateLimit(General) → CSRF を追加で適用する。
// ページルート（/dashboard）は401ではなく/loginへのリダイレクトで応答する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	boardHandler := NewBoardHandler(deps.BoardService, deps.AuthService)
	newsletterHandler := NewNewsletterHandler(deps.NewsletterService)
	userHandler := NewUserHandler(deps.UserService)
	pageHandler := NewPageHandler(deps.AuthService, deps.TelegramBotName)
	healthHandler := NewHealthHandler(deps.HealthPinger)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		// ログインコールバックは未認証のためIPキーのレート制限を適用する
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/telegram/callback", authHandler.TelegramCallback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// メッセージボードの閲覧は公開
	r.Route("/messages", func(r chi.Router) {
		r.Get("/", boardHandler.ListMessages)
		r.Get("/{id}", boardHandler.GetMessage)
	})

	// ニュースレター購読の受付も未認証のためIPキーのレート制限を適用する
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/newsletter/subscribe", newsletterHandler.Subscribe)

	r.Get("/login", pageHandler.LoginPage)
	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なAPIルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.TokenValidator))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Post("/api/messages", boardHandler.PostMessage)
		r.Get("/api/users", userHandler.ListUsers)
	})

	// --- 認証が必要なページルート ---
	// 失敗時はログインページへリダイレクトする
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewPageSessionMiddleware(deps.TokenValidator, "/login"))

		r.Get("/dashboard", pageHandler.Dashboard)
	})

	return r
}
