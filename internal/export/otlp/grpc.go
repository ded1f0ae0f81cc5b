package otlp

import (
	"context"
	"fmt"
	"time"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricspb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding/gzip"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/lightline-io/lightline/internal/config"
	logmodel "github.com/lightline-io/lightline/internal/log"
	"github.com/lightline-io/lightline/internal/metric"
	"github.com/lightline-io/lightline/internal/trace"
)

const maxMessageBytes = 10 * 1024 * 1024

// grpcExporter holds the connection plumbing shared by the three
// per-signal gRPC exporters.
type grpcExporter struct {
	conn     *grpc.ClientConn
	headers  map[string]string
	compress bool
}

// dialGRPC opens the collector connection with keepalive and message
// size limits suitable for long-lived export traffic.
func dialGRPC(cfg config.OTLPConfig) (*grpcExporter, error) {
	creds := credentials.NewTLS(nil)
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	}
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                60 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMessageBytes),
			grpc.MaxCallSendMsgSize(maxMessageBytes),
		),
	}

	conn, err := grpc.NewClient(cfg.Endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp: dial %s: %w", cfg.Endpoint, err)
	}
	return &grpcExporter{
		conn:     conn,
		headers:  cfg.Headers,
		compress: cfg.Compression == "gzip",
	}, nil
}

// callContext attaches the configured headers as outgoing metadata.
func (e *grpcExporter) callContext(ctx context.Context) context.Context {
	for k, v := range e.headers {
		ctx = metadata.AppendToOutgoingContext(ctx, k, v)
	}
	return ctx
}

func (e *grpcExporter) callOptions() []grpc.CallOption {
	if e.compress {
		return []grpc.CallOption{grpc.UseCompressor(gzip.Name)}
	}
	return nil
}

// Run blocks until ctx is cancelled; the gRPC connection manages its own
// keepalive in the background.
func (e *grpcExporter) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// ForceFlush does nothing; exports are unary calls with no local buffer.
func (e *grpcExporter) ForceFlush(context.Context) error { return nil }

// Shutdown closes the connection, best-effort.
func (e *grpcExporter) Shutdown(context.Context) {
	_ = e.conn.Close()
}

// TraceGRPC exports finished spans over OTLP/gRPC.
type TraceGRPC struct {
	grpcExporter
	client coltracepb.TraceServiceClient
}

// NewTraceGRPC creates a span exporter for the configured collector.
func NewTraceGRPC(cfg config.OTLPConfig) (*TraceGRPC, error) {
	base, err := dialGRPC(cfg)
	if err != nil {
		return nil, err
	}
	return &TraceGRPC{
		grpcExporter: *base,
		client:       coltracepb.NewTraceServiceClient(base.conn),
	}, nil
}

// Export sends one batch as a unary call under the transport retry
// policy.
func (e *TraceGRPC) Export(ctx context.Context, batch []*trace.Snapshot) error {
	req := &coltracepb.ExportTraceServiceRequest{ResourceSpans: toResourceSpans(batch)}
	return withRetry(e.callContext(ctx), func(ctx context.Context) error {
		_, err := e.client.Export(ctx, req, e.callOptions()...)
		return err
	})
}

// LogGRPC exports log records over OTLP/gRPC.
type LogGRPC struct {
	grpcExporter
	client collogspb.LogsServiceClient
}

// NewLogGRPC creates a log exporter for the configured collector.
func NewLogGRPC(cfg config.OTLPConfig) (*LogGRPC, error) {
	base, err := dialGRPC(cfg)
	if err != nil {
		return nil, err
	}
	return &LogGRPC{
		grpcExporter: *base,
		client:       collogspb.NewLogsServiceClient(base.conn),
	}, nil
}

// Export sends one batch as a unary call under the transport retry
// policy.
func (e *LogGRPC) Export(ctx context.Context, batch []*logmodel.Record) error {
	req := &collogspb.ExportLogsServiceRequest{ResourceLogs: toResourceLogs(batch)}
	return withRetry(e.callContext(ctx), func(ctx context.Context) error {
		_, err := e.client.Export(ctx, req, e.callOptions()...)
		return err
	})
}

// MetricGRPC exports metric snapshots over OTLP/gRPC.
type MetricGRPC struct {
	grpcExporter
	client colmetricspb.MetricsServiceClient
}

// NewMetricGRPC creates a metric exporter for the configured collector.
func NewMetricGRPC(cfg config.OTLPConfig) (*MetricGRPC, error) {
	base, err := dialGRPC(cfg)
	if err != nil {
		return nil, err
	}
	return &MetricGRPC{
		grpcExporter: *base,
		client:       colmetricspb.NewMetricsServiceClient(base.conn),
	}, nil
}

// Export sends one snapshot batch as a unary call under the transport
// retry policy.
func (e *MetricGRPC) Export(ctx context.Context, batch []metric.Snapshot) error {
	req := &colmetricspb.ExportMetricsServiceRequest{ResourceMetrics: toResourceMetrics(batch)}
	return withRetry(e.callContext(ctx), func(ctx context.Context) error {
		_, err := e.client.Export(ctx, req, e.callOptions()...)
		return err
	})
}
