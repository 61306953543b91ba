package model

import "time"

// Message はメッセージボードの投稿1件を表す。
// Textは保存前にサニタイズ済みのものが入る。
type Message struct {
	ID        string
	Author    string
	Text      string
	CreatedAt time.Time
}
