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
// ミドルウェア、サービス層、投稿クライアントから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordContentCreated(contentType string)
	RecordUploads(count int)
	RecordSubmissionFallback(resource string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus         *prometheus.CounterVec
	requestLatency     prometheus.Histogram
	contentCreated     *prometheus.CounterVec
	uploads            prometheus.Counter
	submissionFallback *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intranet_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intranet_request_duration_seconds",
			Help:    "APIリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		contentCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intranet_content_created_total",
			Help: "種別ごとの作成されたコンテンツ数",
		}, []string{"type"}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intranet_uploads_total",
			Help: "保存されたアップロードファイルの合計数",
		}),
		submissionFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intranet_submission_fallback_total",
			Help: "APIに到達できずDB直接書き込みへ切り替えた投稿数",
		}, []string{"resource"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.contentCreated,
		c.uploads,
		c.submissionFallback,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストの処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordContentCreated は作成されたコンテンツを種別ごとに記録する。
func (c *Collector) RecordContentCreated(contentType string) {
	c.contentCreated.WithLabelValues(contentType).Inc()
}

// RecordUploads は保存されたファイル数を記録する。
func (c *Collector) RecordUploads(count int) {
	c.uploads.Add(float64(count))
}

// RecordSubmissionFallback はフォールバック経路での投稿を記録する。
func (c *Collector) RecordSubmissionFallback(resource string) {
	c.submissionFallback.WithLabelValues(resource).Inc()
}

// Nop は何も記録しないMetricsCollector。メトリクスを公開しないプロセス（tui）で使う。
type Nop struct{}

func (Nop) RecordHTTPStatus(int)               {}
func (Nop) RecordRequestLatency(time.Duration) {}
func (Nop) RecordContentCreated(string)        {}
func (Nop) RecordUploads(int)                  {}
func (Nop) RecordSubmissionFallback(string)    {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
