// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/boardman/internal/model"
)

// ErrIdentityExists は(provider, provider_user_id)の一意性制約違反を表す。
// 同時初回ログインの競合時に発生し、呼び出し側は既存identityの再検索で回復する。
var ErrIdentityExists = errors.New("identity already exists")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// List は全ユーザーを作成日時の降順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	// identityの一意性制約に違反した場合はErrIdentityExistsを返し、
	// トランザクション全体をロールバックする（部分コミットは発生しない）。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// MessageRepository はメッセージボード投稿の永続化インターフェース。
type MessageRepository interface {
	// Create は投稿を作成する。
	Create(ctx context.Context, message *model.Message) error

	// FindByID は指定IDの投稿を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Message, error)

	// List は投稿を作成日時の降順で返す。
	List(ctx context.Context) ([]*model.Message, error)
}
