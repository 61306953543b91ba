package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labelValue string) (float64, bool) {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" && len(m.GetLabel()) == 0 {
				return m.GetCounter().GetValue(), true
			}
			for _, l := range m.GetLabel() {
				if l.GetValue() == labelValue {
					return m.GetCounter().GetValue(), true
				}
			}
		}
	}
	return 0, false
}

// TestRecordLoginSuccess_IncrementsCounterWithLabel はログイン成功カウンタが
// 新規ユーザーラベル付きで増加することを検証する。
func TestRecordLoginSuccess_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess(true)
	c.RecordLoginSuccess(false)
	c.RecordLoginSuccess(false)

	if val, ok := counterValue(t, reg, "boardman_login_success_total", "true"); !ok || val != 1 {
		t.Errorf("login_success_total{is_new_user=true} = %v (found=%v), want 1", val, ok)
	}
	if val, ok := counterValue(t, reg, "boardman_login_success_total", "false"); !ok || val != 2 {
		t.Errorf("login_success_total{is_new_user=false} = %v (found=%v), want 2", val, ok)
	}
}

// TestRecordLoginFailure_IncrementsCounterWithReason はログイン失敗カウンタが
// 理由ラベル付きで増加することを検証する。
func TestRecordLoginFailure_IncrementsCounterWithReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginFailure("bad_signature")
	c.RecordLoginFailure("bad_signature")
	c.RecordLoginFailure("conflict")

	if val, ok := counterValue(t, reg, "boardman_login_fail_total", "bad_signature"); !ok || val != 2 {
		t.Errorf("login_fail_total{reason=bad_signature} = %v (found=%v), want 2", val, ok)
	}
	if val, ok := counterValue(t, reg, "boardman_login_fail_total", "conflict"); !ok || val != 1 {
		t.Errorf("login_fail_total{reason=conflict} = %v (found=%v), want 1", val, ok)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if val, ok := counterValue(t, reg, "boardman_http_status_total", "200"); !ok || val != 2 {
		t.Errorf("http_status_total{status_code=200} = %v (found=%v), want 2", val, ok)
	}
	if val, ok := counterValue(t, reg, "boardman_http_status_total", "404"); !ok || val != 1 {
		t.Errorf("http_status_total{status_code=404} = %v (found=%v), want 1", val, ok)
	}
}

// TestRecordRequestDuration_ObservesHistogram はリクエスト処理時間のヒストグラムに値が記録されることを検証する。
func TestRecordRequestDuration_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestDuration(100 * time.Millisecond)
	c.RecordRequestDuration(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "boardman_request_duration_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("boardman_request_duration_seconds metric not found")
	}
}

// TestRecordDomainCounters_Increment はドメインイベントのカウンタが増加することを検証する。
func TestRecordDomainCounters_Increment(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordMessagePosted()
	c.RecordMessagePosted()
	c.RecordNewsletterRelayed()
	c.RecordNewsletterFailure()
	c.RecordNewsletterFailure()
	c.RecordNewsletterFailure()

	if val, ok := counterValue(t, reg, "boardman_messages_posted_total", ""); !ok || val != 2 {
		t.Errorf("messages_posted_total = %v (found=%v), want 2", val, ok)
	}
	if val, ok := counterValue(t, reg, "boardman_newsletter_relayed_total", ""); !ok || val != 1 {
		t.Errorf("newsletter_relayed_total = %v (found=%v), want 1", val, ok)
	}
	if val, ok := counterValue(t, reg, "boardman_newsletter_fail_total", ""); !ok || val != 3 {
		t.Errorf("newsletter_fail_total = %v (found=%v), want 3", val, ok)
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess(true)
	c.RecordLoginFailure("bad_signature")
	c.RecordHTTPStatus(200)
	c.RecordRequestDuration(500 * time.Millisecond)
	c.RecordMessagePosted()

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	expectedMetrics := []string{
		"boardman_login_success_total",
		"boardman_login_fail_total",
		"boardman_http_status_total",
		"boardman_request_duration_seconds",
		"boardman_messages_posted_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}

// TestSetupMetricsRoute_ServesMetrics は/metricsパスでメトリクスが返ることを検証する。
func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordMessagePosted()

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body, _ := io.ReadAll(w.Result().Body)
	if !strings.Contains(string(body), "boardman_messages_posted_total") {
		t.Error("response should contain boardman_messages_posted_total metric")
	}
}
