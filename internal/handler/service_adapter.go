package handler

import (
	"context"

	"github.com/hitoshi/boardman/internal/auth"
	"github.com/hitoshi/boardman/internal/board"
	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/newsletter"
	"github.com/hitoshi/boardman/internal/repository"
)

// UserServiceAdapter は repository.UserRepository を UserServiceInterface に適合させるアダプタ。
// ユーザー一覧はリポジトリの読み取りだけで完結するため、専用のサービス層は設けない。
type UserServiceAdapter struct {
	repo repository.UserRepository
}

// NewUserServiceAdapter はUserServiceAdapterを生成する。
func NewUserServiceAdapter(repo repository.UserRepository) *UserServiceAdapter {
	return &UserServiceAdapter{repo: repo}
}

// ListUsers は全ユーザーを作成日時の降順で返す。
func (a *UserServiceAdapter) ListUsers(ctx context.Context) ([]*model.User, error) {
	return a.repo.List(ctx)
}

// --- compile-time interface checks ---

var _ UserServiceInterface = (*UserServiceAdapter)(nil)
var _ AuthServiceInterface = (*auth.Service)(nil)
var _ UserGetter = (*auth.Service)(nil)
var _ BoardServiceInterface = (*board.Service)(nil)
var _ NewsletterServiceInterface = (*newsletter.Service)(nil)
