// Package board はメッセージボードのドメインロジックを提供する。
package board

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
	"github.com/hitoshi/boardman/internal/security"
)

// maxMessageLength は投稿本文の最大文字数。
const maxMessageLength = 2000

// MetricsRecorder は投稿数のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordMessagePosted()
}

// Service はメッセージボードのサービス層。
// 投稿の作成・取得・一覧を提供する。
type Service struct {
	messageRepo repository.MessageRepository
	sanitizer   security.MessageSanitizerService
	metrics     MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(messageRepo repository.MessageRepository, sanitizer security.MessageSanitizerService, metrics MetricsRecorder) *Service {
	return &Service{
		messageRepo: messageRepo,
		sanitizer:   sanitizer,
		metrics:     metrics,
	}
}

// Post は新しい投稿を作成する。
// 本文は保存前にサニタイズされる。サニタイズ後に空になった場合は不正な投稿とする。
func (s *Service) Post(ctx context.Context, author, text string) (*model.Message, error) {
	if author == "" {
		return nil, model.NewInvalidMessageError("投稿者名が空です")
	}

	sanitized := s.sanitizer.Sanitize(text)
	if sanitized == "" {
		return nil, model.NewInvalidMessageError("本文が空です")
	}
	if len([]rune(sanitized)) > maxMessageLength {
		return nil, model.NewInvalidMessageError("本文が長すぎます")
	}

	message := &model.Message{
		ID:        uuid.New().String(),
		Author:    author,
		Text:      sanitized,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMessagePosted()
	}

	slog.Info("message posted",
		slog.String("message_id", message.ID),
		slog.String("author", author),
	)

	return message, nil
}

// Get は指定IDの投稿を取得する。見つからない場合はAPIErrorを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	if message == nil {
		return nil, model.NewMessageNotFoundError(id)
	}
	return message, nil
}

// List は投稿を新しい順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Message, error) {
	messages, err := s.messageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
