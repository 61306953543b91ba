// Package newsletter はニュースレター購読の受付と外部メールAPIへの中継を提供する。
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// defaultEndpoint はResendメール送信APIのベースURL。
const defaultEndpoint = "https://api.resend.com"

// EmailSender はメール送信のインターフェース。
// テストではモックに差し替える。
type EmailSender interface {
	// Send は通知メールを1通送信する。
	Send(ctx context.Context, from, to, subject, text string) error
}

// ResendClient はResendメール送信APIのクライアント。
type ResendClient struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string // テスト用にエンドポイントを差し替え可能
}

// NewResendClient はResendClientの新しいインスタンスを生成する。
// endpointが空の場合はResendの本番APIを使用する。
// httpClientにはSSRF防止機能付きクライアントを渡すことを想定している
// （エンドポイントは設定値由来のため）。
func NewResendClient(httpClient *http.Client, apiKey, endpoint string) *ResendClient {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &ResendClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		endpoint:   endpoint,
	}
}

// sendRequest はResendの /emails エンドポイントへのリクエストボディ。
type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Send は通知メールを1通送信する。
// APIキー未設定の場合は設定不備としてエラーを返す（フェイルクローズ）。
func (c *ResendClient) Send(ctx context.Context, from, to, subject, text string) error {
	if c.apiKey == "" {
		return fmt.Errorf("resend API key is not configured")
	}

	body, err := json.Marshal(sendRequest{
		From:    from,
		To:      to,
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// エラーボディはログ調査用に読み取るが、長さを制限する
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("send failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// compile-time interface check
var _ EmailSender = (*ResendClient)(nil)
