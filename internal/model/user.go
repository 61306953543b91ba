// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 外部IdPのプロフィールから初回ログイン時に1回だけ作成され、削除されない。
type User struct {
	ID        string
	FirstName string
	LastName  string // 任意項目。未設定の場合は空文字列。
	Username  string // 任意項目。未設定の場合は空文字列。
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// (Provider, ProviderUserID) の組はシステム全体で一意であり、
// 1つの外部アイデンティティに対してUserは高々1人しか存在しない。
// 将来的に複数のIdP（Telegram以外）に対応可能な構造。
type Identity struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}
