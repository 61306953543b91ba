// Package auth はTelegramログイン検証、セッショントークンの発行・検証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

var (
	// ErrAuthenticationFailed は署名検証の失敗を表す。部分的な状態は一切作られない。
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidPayload は必須フィールド欠落などのペイロード不正を表す。
	// トランザクションは開始されない。
	ErrInvalidPayload = errors.New("invalid login payload")

	// ErrIdentityConflict は一意性制約違反のリトライ検索にも失敗したことを表す。
	ErrIdentityConflict = errors.New("identity conflict")
)

// MetricsRecorder はログイン結果のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordLoginSuccess(isNewUser bool)
	RecordLoginFailure(reason string)
}

// LoginResult はログイン成功時の結果を表す。
type LoginResult struct {
	User      *model.User
	Token     string
	IsNewUser bool
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	verifier  *TelegramVerifier
	tokens    *TokenService
	userRepo  repository.UserRepository
	identRepo repository.IdentityRepository
	metrics   MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(
	verifier *TelegramVerifier,
	tokens *TokenService,
	userRepo repository.UserRepository,
	identRepo repository.IdentityRepository,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		verifier:  verifier,
		tokens:    tokens,
		userRepo:  userRepo,
		identRepo: identRepo,
		metrics:   metrics,
	}
}

// LoginWithTelegram はログインペイロードを検証し、セッショントークンを発行する。
// 未登録ユーザーの場合はusersレコードとauth_providersレコードを
// 同一トランザクションで自動作成する。
// 登録済みユーザーの場合はauth_providersテーブルで既存ユーザーを特定しログインする。
// 同時初回ログインで一意性制約違反が起きた場合は既存identityの再検索で回復する。
func (s *Service) LoginWithTelegram(ctx context.Context, payload LoginPayload) (*LoginResult, error) {
	// 1. 署名検証。失敗時はここで打ち切り、DBには一切触れない。
	if !s.verifier.Verify(payload) {
		s.recordFailure("bad_signature")
		return nil, ErrAuthenticationFailed
	}

	// 2. 必須フィールドの検証
	providerUserID := payload.ID()
	if providerUserID == "" {
		s.recordFailure("invalid_payload")
		return nil, fmt.Errorf("%w: id is required", ErrInvalidPayload)
	}
	if payload.FirstName() == "" {
		s.recordFailure("invalid_payload")
		return nil, fmt.Errorf("%w: first_name is required", ErrInvalidPayload)
	}

	// 3. ユーザーの解決または作成
	user, isNew, err := s.resolveOrCreate(ctx, ProviderTelegram, providerUserID, payload)
	if err != nil {
		if errors.Is(err, ErrIdentityConflict) {
			s.recordFailure("conflict")
		} else {
			s.recordFailure("internal")
		}
		return nil, err
	}

	// 4. セッショントークンを発行
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.recordFailure("internal")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess(isNew)
	}

	return &LoginResult{User: user, Token: token, IsNewUser: isNew}, nil
}

// GetUser は指定IDのユーザーを取得する。見つからない場合はエラーを返す。
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// ValidateToken はセッショントークンを検証しユーザーIDを返す。
func (s *Service) ValidateToken(raw string) (string, error) {
	return s.tokens.Validate(raw)
}

// resolveOrCreate は外部アイデンティティを内部ユーザーに解決する。
// 見つからない場合はプロフィールから新規作成する。
// 作成が一意性制約違反で失敗した場合（同時初回ログインの競合）は、
// 勝った側のレコードを再検索して既存ユーザーとして返す。
func (s *Service) resolveOrCreate(ctx context.Context, provider, providerUserID string, payload LoginPayload) (*model.User, bool, error) {
	identity, err := s.identRepo.FindByProviderAndProviderUserID(ctx, provider, providerUserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find identity: %w", err)
	}

	if identity != nil {
		user, err := s.userRepo.FindByID(ctx, identity.UserID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to find user: %w", err)
		}
		if user == nil {
			return nil, false, fmt.Errorf("identity %s references missing user %s", identity.ID, identity.UserID)
		}
		slog.Info("existing user logged in",
			slog.String("user_id", user.ID),
			slog.String("provider", provider),
		)
		return user, false, nil
	}

	now := time.Now()
	newUser := &model.User{
		ID:        uuid.New().String(),
		FirstName: payload.FirstName(),
		LastName:  payload.LastName(),
		Username:  payload.Username(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	newIdentity := &model.Identity{
		ID:             uuid.New().String(),
		UserID:         newUser.ID,
		Provider:       provider,
		ProviderUserID: providerUserID,
		CreatedAt:      now,
	}

	err = s.userRepo.CreateWithIdentity(ctx, newUser, newIdentity)
	if err == nil {
		slog.Info("new user created",
			slog.String("user_id", newUser.ID),
			slog.String("provider", provider),
		)
		return newUser, true, nil
	}

	if !errors.Is(err, repository.ErrIdentityExists) {
		return nil, false, fmt.Errorf("failed to create user and identity: %w", err)
	}

	// 一意性制約違反: 同じ外部アイデンティティの同時リクエストに先を越された。
	// 勝った側のレコードを検索して既存ユーザーとして扱う。
	slog.Info("identity insert raced, retrying lookup",
		slog.String("provider", provider),
	)

	identity, err = s.identRepo.FindByProviderAndProviderUserID(ctx, provider, providerUserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to retry identity lookup: %w", err)
	}
	if identity == nil {
		return nil, false, ErrIdentityConflict
	}

	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find user after conflict: %w", err)
	}
	if user == nil {
		return nil, false, ErrIdentityConflict
	}

	return user, false, nil
}

func (s *Service) recordFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure(reason)
	}
}
