package newsletter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hitoshi/boardman/internal/model"
)

// --- モック定義 ---

type mockSender struct {
	sendFn func(ctx context.Context, from, to, subject, text string) error
	calls  int
}

func (m *mockSender) Send(ctx context.Context, from, to, subject, text string) error {
	m.calls++
	if m.sendFn != nil {
		return m.sendFn(ctx, from, to, subject, text)
	}
	return nil
}

type mockNewsletterMetrics struct {
	relayed  int
	failures int
}

func (m *mockNewsletterMetrics) RecordNewsletterRelayed() { m.relayed++ }
func (m *mockNewsletterMetrics) RecordNewsletterFailure() { m.failures++ }

// --- compile-time interface checks ---
var _ EmailSender = (*mockSender)(nil)
var _ MetricsRecorder = (*mockNewsletterMetrics)(nil)

// --- テスト ---

func TestSubscribe_ValidEmail_RelaysNotification(t *testing.T) {
	ctx := context.Background()

	var gotFrom, gotTo, gotText string
	sender := &mockSender{
		sendFn: func(ctx context.Context, from, to, subject, text string) error {
			gotFrom = from
			gotTo = to
			gotText = text
			return nil
		},
	}
	metrics := &mockNewsletterMetrics{}

	svc := NewService(sender, ServiceConfig{
		From: "noreply@example.com",
		To:   "owner@example.com",
	}, metrics)

	if err := svc.Subscribe(ctx, "reader@example.com"); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if gotFrom != "noreply@example.com" {
		t.Errorf("from = %q, want %q", gotFrom, "noreply@example.com")
	}
	if gotTo != "owner@example.com" {
		t.Errorf("to = %q, want %q", gotTo, "owner@example.com")
	}
	if !strings.Contains(gotText, "reader@example.com") {
		t.Errorf("text = %q, should contain subscriber email", gotText)
	}

	if metrics.relayed != 1 {
		t.Errorf("relayed count = %d, want 1", metrics.relayed)
	}
}

func TestSubscribe_InvalidEmail_ReturnsErrorWithoutRelay(t *testing.T) {
	ctx := context.Background()

	cases := []string{
		"",
		"not-an-email",
		"missing-at.example.com",
		"double@@example.com",
	}

	for _, email := range cases {
		sender := &mockSender{}
		svc := NewService(sender, ServiceConfig{From: "a@example.com", To: "b@example.com"}, nil)

		err := svc.Subscribe(ctx, email)
		if err == nil {
			t.Errorf("Subscribe(%q): expected error", email)
			continue
		}

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidEmail {
			t.Errorf("Subscribe(%q): error = %v, want INVALID_EMAIL", email, err)
		}
		if sender.calls != 0 {
			t.Errorf("Subscribe(%q): sender should not be called", email)
		}
	}
}

func TestSubscribe_SenderFailure_RecordsFailure(t *testing.T) {
	ctx := context.Background()

	sender := &mockSender{
		sendFn: func(ctx context.Context, from, to, subject, text string) error {
			return errors.New("relay unavailable")
		},
	}
	metrics := &mockNewsletterMetrics{}

	svc := NewService(sender, ServiceConfig{From: "a@example.com", To: "b@example.com"}, metrics)

	err := svc.Subscribe(ctx, "reader@example.com")
	if err == nil {
		t.Fatal("expected error when relay fails")
	}

	if metrics.failures != 1 {
		t.Errorf("failure count = %d, want 1", metrics.failures)
	}
	if metrics.relayed != 0 {
		t.Errorf("relayed count = %d, want 0", metrics.relayed)
	}
}
