// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, conflict, board, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeInvalidPayload       = "INVALID_PAYLOAD"
	ErrCodeIdentityConflict     = "IDENTITY_CONFLICT"
	ErrCodeInvalidCredential    = "INVALID_CREDENTIAL"
	ErrCodeMessageNotFound      = "MESSAGE_NOT_FOUND"
	ErrCodeInvalidMessage       = "INVALID_MESSAGE"
	ErrCodeInvalidEmail         = "INVALID_EMAIL"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
)

// NewAuthenticationFailedError はログインペイロードの署名検証失敗エラーを生成する。
func NewAuthenticationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthenticationFailed,
		Message:  "ログインペイロードの検証に失敗しました。",
		Category: "auth",
		Action:   "ログインウィジェットから再度ログインしてください。",
	}
}

// NewInvalidPayloadError は必須フィールド欠落などのペイロード不正エラーを生成する。
func NewInvalidPayloadError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPayload,
		Message:  fmt.Sprintf("ログインペイロードが不正です: %s", reason),
		Category: "validation",
		Action:   "ログインウィジェットから再度ログインしてください。",
	}
}

// NewIdentityConflictError は外部アイデンティティの一意性違反エラーを生成する。
// 同時初回ログインの競合で再検索にも失敗した場合にのみ使用する。
func NewIdentityConflictError() *APIError {
	return &APIError{
		Code:     ErrCodeIdentityConflict,
		Message:  "この外部アイデンティティは既に登録されています。",
		Category: "conflict",
		Action:   "しばらく待ってから再度ログインしてください。",
	}
}

// NewInvalidCredentialError は無効なセッショントークンエラーを生成する。
// 期限切れ・署名不正・形式不正は区別せず一律に扱う。
func NewInvalidCredentialError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredential,
		Message:  "認証されていません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewMessageNotFoundError はメッセージ未検出エラーを生成する。
func NewMessageNotFoundError(messageID string) *APIError {
	return &APIError{
		Code:     ErrCodeMessageNotFound,
		Message:  fmt.Sprintf("指定されたメッセージが見つかりません: %s", messageID),
		Category: "board",
		Action:   "メッセージIDを確認してください。",
	}
}

// NewInvalidMessageError は投稿内容の不正エラーを生成する。
func NewInvalidMessageError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidMessage,
		Message:  fmt.Sprintf("投稿内容が不正です: %s", reason),
		Category: "validation",
		Action:   "投稿者名と本文を入力してください。",
	}
}

// NewInvalidEmailError はニュースレター購読のメールアドレス不正エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "メールアドレスが不正です。",
		Category: "validation",
		Action:   "正しい形式のメールアドレスを入力してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
