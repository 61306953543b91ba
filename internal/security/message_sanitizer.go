// Package security はアプリケーションのセキュリティ機能を提供する。
//
// MessageSanitizerService はメッセージボード投稿の本文をサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 限られた整形タグのみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MessageSanitizerService はメッセージ本文のサニタイズ機能のインターフェースを定義する。
// 投稿の保存前に使用される。
type MessageSanitizerService interface {
	// Sanitize は投稿本文をサニタイズして安全な文字列を返す。
	// 許可タグ（b, i, em, strong, code, br）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性、リンク、画像を除去する。
	// 前後の空白は取り除かれる。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// messageSanitizer はMessageSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type messageSanitizer struct {
	policy *bluemonday.Policy
}

// NewMessageSanitizer はMessageSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
// ポリシーの内容:
//   - 許可タグ: b, i, em, strong, code, br（属性なしの整形タグのみ）
//   - 禁止タグ: script, iframe, style, a, img および全てのon*イベント属性
//     （許可リストに含めないことで自動的に除去される）
func NewMessageSanitizer() *messageSanitizer {
	p := bluemonday.NewPolicy()

	// 投稿本文は短いテキストであり、リンクや画像は許可しない。
	p.AllowElements("b", "i", "em", "strong", "code", "br")

	return &messageSanitizer{
		policy: p,
	}
}

// Sanitize は投稿本文をサニタイズして安全な文字列を返す。
func (s *messageSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ MessageSanitizerService = (*messageSanitizer)(nil)
