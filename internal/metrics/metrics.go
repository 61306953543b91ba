// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordLoginSuccess(isNewUser bool)
	RecordLoginFailure(reason string)
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordMessagePosted()
	RecordNewsletterRelayed()
	RecordNewsletterFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess       *prometheus.CounterVec
	loginFail          *prometheus.CounterVec
	httpStatus         *prometheus.CounterVec
	requestDuration    prometheus.Histogram
	messagesPosted     prometheus.Counter
	newsletterRelayed  prometheus.Counter
	newsletterFailures prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_login_success_total",
			Help: "ログイン成功の合計数（新規ユーザーかどうかのラベル付き）",
		}, []string{"is_new_user"}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_login_fail_total",
			Help: "ログイン失敗の合計数（失敗理由のラベル付き）",
		}, []string{"reason"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "boardman_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		messagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_messages_posted_total",
			Help: "投稿されたメッセージの合計数",
		}),
		newsletterRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_newsletter_relayed_total",
			Help: "中継されたニュースレター購読通知の合計数",
		}),
		newsletterFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_newsletter_fail_total",
			Help: "ニュースレター購読通知の中継失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.httpStatus,
		c.requestDuration,
		c.messagesPosted,
		c.newsletterRelayed,
		c.newsletterFailures,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess(isNewUser bool) {
	c.loginSuccess.WithLabelValues(strconv.FormatBool(isNewUser)).Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordMessagePosted はメッセージ投稿を記録する。
func (c *Collector) RecordMessagePosted() {
	c.messagesPosted.Inc()
}

// RecordNewsletterRelayed はニュースレター通知の中継成功を記録する。
func (c *Collector) RecordNewsletterRelayed() {
	c.newsletterRelayed.Inc()
}

// RecordNewsletterFailure はニュースレター通知の中継失敗を記録する。
func (c *Collector) RecordNewsletterFailure() {
	c.newsletterFailures.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
