package newsletter

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/hitoshi/boardman/internal/model"
)

// MetricsRecorder は中継結果のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordNewsletterRelayed()
	RecordNewsletterFailure()
}

// ServiceConfig はニュースレターサービスの設定。
type ServiceConfig struct {
	From string // 通知メールの送信元アドレス
	To   string // 通知メールの宛先（運営者）アドレス
}

// Service はニュースレター購読の受付を提供する。
// 購読者はサーバー側に保存せず、外部メールAPIへの通知中継のみを行う。
type Service struct {
	sender  EmailSender
	config  ServiceConfig
	metrics MetricsRecorder
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(sender EmailSender, config ServiceConfig, metrics MetricsRecorder) *Service {
	return &Service{
		sender:  sender,
		config:  config,
		metrics: metrics,
	}
}

// Subscribe は購読申し込みを受け付け、運営者への通知メールを中継する。
// メールアドレスの形式が不正な場合はAPIError（validation）を返し、中継は行わない。
// 中継の完了を待ってから返る。
func (s *Service) Subscribe(ctx context.Context, email string) error {
	if email == "" {
		return model.NewInvalidEmailError()
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.NewInvalidEmailError()
	}

	err := s.sender.Send(ctx,
		s.config.From,
		s.config.To,
		"New Newsletter Subscriber",
		fmt.Sprintf("New subscriber: %s", email),
	)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordNewsletterFailure()
		}
		return fmt.Errorf("failed to relay subscription: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordNewsletterRelayed()
	}

	slog.Info("newsletter subscription relayed")
	return nil
}
