package otlp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/lightline-io/lightline/internal/config"
	logmodel "github.com/lightline-io/lightline/internal/log"
	"github.com/lightline-io/lightline/internal/metric"
	"github.com/lightline-io/lightline/internal/trace"
)

// Collector URL paths per OTLP/HTTP convention.
const (
	tracesPath  = "/v1/traces"
	logsPath    = "/v1/logs"
	metricsPath = "/v1/metrics"
)

// httpExporter holds the transport plumbing shared by the three
// per-signal OTLP/HTTP exporters.
type httpExporter struct {
	client  *retryablehttp.Client
	url     string
	headers map[string]string
	json    bool
	gzip    bool
}

func newHTTPExporter(cfg config.OTLPConfig, path string) *httpExporter {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = retryMaxAttempts - 1
	client.RetryWaitMin = retryInitialInterval
	client.RetryWaitMax = retryMaxInterval
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}

	scheme := "https"
	if cfg.Insecure {
		scheme = "http"
	}
	return &httpExporter{
		client:  client,
		url:     scheme + "://" + cfg.Endpoint + path,
		headers: cfg.Headers,
		json:    cfg.Protocol == config.ProtocolHTTPJSON,
		gzip:    cfg.Compression == "gzip",
	}
}

// send encodes msg per the configured protocol and posts it to the
// collector. Non-2xx responses are errors; retryablehttp has already
// retried retryable statuses by the time one is reported.
func (e *httpExporter) send(ctx context.Context, msg proto.Message) error {
	var (
		body        []byte
		err         error
		contentType string
	)
	if e.json {
		body, err = protojson.Marshal(msg)
		contentType = "application/json"
	} else {
		body, err = proto.Marshal(msg)
		contentType = "application/x-protobuf"
	}
	if err != nil {
		return fmt.Errorf("otlp: encode: %w", err)
	}

	var contentEncoding string
	if e.gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(body); err != nil {
			return fmt.Errorf("otlp: compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("otlp: compress: %w", err)
		}
		body = buf.Bytes()
		contentEncoding = "gzip"
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, e.url, body)
	if err != nil {
		return fmt.Errorf("otlp: request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if contentEncoding != "" {
		req.Header.Set("Content-Encoding", contentEncoding)
	}
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("otlp: post %s: %w", e.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("otlp: post %s: unexpected status %s", e.url, resp.Status)
	}
	return nil
}

// Run blocks until ctx is cancelled; the HTTP client needs no background
// loop.
func (e *httpExporter) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// ForceFlush does nothing; every Export posts through synchronously.
func (e *httpExporter) ForceFlush(context.Context) error { return nil }

// Shutdown releases idle connections, best-effort.
func (e *httpExporter) Shutdown(context.Context) {
	e.client.HTTPClient.CloseIdleConnections()
}

// TraceHTTP exports finished spans over OTLP/HTTP.
type TraceHTTP struct {
	httpExporter
}

// NewTraceHTTP creates a span exporter posting to /v1/traces.
func NewTraceHTTP(cfg config.OTLPConfig) *TraceHTTP {
	return &TraceHTTP{httpExporter: *newHTTPExporter(cfg, tracesPath)}
}

// Export posts one batch.
func (e *TraceHTTP) Export(ctx context.Context, batch []*trace.Snapshot) error {
	return e.send(ctx, &coltracepb.ExportTraceServiceRequest{ResourceSpans: toResourceSpans(batch)})
}

// LogHTTP exports log records over OTLP/HTTP.
type LogHTTP struct {
	httpExporter
}

// NewLogHTTP creates a log exporter posting to /v1/logs.
func NewLogHTTP(cfg config.OTLPConfig) *LogHTTP {
	return &LogHTTP{httpExporter: *newHTTPExporter(cfg, logsPath)}
}

// Export posts one batch.
func (e *LogHTTP) Export(ctx context.Context, batch []*logmodel.Record) error {
	return e.send(ctx, &collogspb.ExportLogsServiceRequest{ResourceLogs: toResourceLogs(batch)})
}

// MetricHTTP exports metric snapshots over OTLP/HTTP.
type MetricHTTP struct {
	httpExporter
}

// NewMetricHTTP creates a metric exporter posting to /v1/metrics.
func NewMetricHTTP(cfg config.OTLPConfig) *MetricHTTP {
	return &MetricHTTP{httpExporter: *newHTTPExporter(cfg, metricsPath)}
}

// Export posts one snapshot batch.
func (e *MetricHTTP) Export(ctx context.Context, batch []metric.Snapshot) error {
	return e.send(ctx, &colmetricspb.ExportMetricsServiceRequest{ResourceMetrics: toResourceMetrics(batch)})
}
