package otlp

import (
	"time"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/lightline-io/lightline/internal/attribute"
	logmodel "github.com/lightline-io/lightline/internal/log"
	"github.com/lightline-io/lightline/internal/metric"
	"github.com/lightline-io/lightline/internal/resource"
	"github.com/lightline-io/lightline/internal/trace"
)

// scopeName identifies this SDK in the OTLP instrumentation scope.
const scopeName = "github.com/lightline-io/lightline"

func toAnyValue(v attribute.Value) *commonpb.AnyValue {
	switch v.Type() {
	case attribute.TypeBool:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: v.AsBool()}}
	case attribute.TypeInt64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: v.AsInt64()}}
	case attribute.TypeFloat64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: v.AsFloat64()}}
	case attribute.TypeString:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: v.AsString()}}
	case attribute.TypeStringSlice:
		values := v.AsStringSlice()
		arr := make([]*commonpb.AnyValue, len(values))
		for i, s := range values {
			arr[i] = &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: s}}
		}
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_ArrayValue{ArrayValue: &commonpb.ArrayValue{Values: arr}}}
	default:
		return nil
	}
}

func toKeyValues(attrs []attribute.KeyValue) []*commonpb.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]*commonpb.KeyValue, 0, len(attrs))
	for _, kv := range attrs {
		if !kv.Valid() {
			continue
		}
		out = append(out, &commonpb.KeyValue{Key: kv.Key, Value: toAnyValue(kv.Value)})
	}
	return out
}

func toResource(r *resource.Resource) *resourcepb.Resource {
	if r == nil || r.Len() == 0 {
		return nil
	}
	return &resourcepb.Resource{Attributes: toKeyValues(r.Attributes())}
}

func toUnixNano(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.UnixNano())
}

func toSpanKind(k trace.SpanKind) tracepb.Span_SpanKind {
	switch k {
	case trace.KindServer:
		return tracepb.Span_SPAN_KIND_SERVER
	case trace.KindClient:
		return tracepb.Span_SPAN_KIND_CLIENT
	case trace.KindProducer:
		return tracepb.Span_SPAN_KIND_PRODUCER
	case trace.KindConsumer:
		return tracepb.Span_SPAN_KIND_CONSUMER
	default:
		return tracepb.Span_SPAN_KIND_INTERNAL
	}
}

func toStatus(s trace.Status) *tracepb.Status {
	if s.Code == trace.StatusUnset && s.Description == "" {
		return nil
	}
	code := tracepb.Status_STATUS_CODE_UNSET
	switch s.Code {
	case trace.StatusOK:
		code = tracepb.Status_STATUS_CODE_OK
	case trace.StatusError:
		code = tracepb.Status_STATUS_CODE_ERROR
	}
	return &tracepb.Status{Code: code, Message: s.Description}
}

func toSpan(s *trace.Snapshot) *tracepb.Span {
	sc := s.Context
	traceID := sc.TraceID()
	spanID := sc.SpanID()
	span := &tracepb.Span{
		TraceId:           traceID[:],
		SpanId:            spanID[:],
		TraceState:        sc.TraceState().String(),
		Name:              s.Name,
		Kind:              toSpanKind(s.Kind),
		StartTimeUnixNano: toUnixNano(s.StartTime),
		EndTimeUnixNano:   toUnixNano(s.EndTime),
		Attributes:        toKeyValues(s.Attributes),
		Status:            toStatus(s.Status),
	}
	if parent := sc.ParentID(); parent.IsValid() {
		span.ParentSpanId = parent[:]
	}
	for _, e := range s.Events {
		span.Events = append(span.Events, &tracepb.Span_Event{
			Name:         e.Name,
			TimeUnixNano: toUnixNano(e.Time),
			Attributes:   toKeyValues(e.Attributes),
		})
	}
	for _, l := range s.Links {
		linkTraceID := l.Context.TraceID()
		linkSpanID := l.Context.SpanID()
		span.Links = append(span.Links, &tracepb.Span_Link{
			TraceId:    linkTraceID[:],
			SpanId:     linkSpanID[:],
			TraceState: l.Context.TraceState().String(),
			Attributes: toKeyValues(l.Attributes),
		})
	}
	return span
}

// toResourceSpans groups a batch under its resource envelopes. Batches
// normally share one resource; grouping keeps the wire form correct when
// they do not.
func toResourceSpans(batch []*trace.Snapshot) []*tracepb.ResourceSpans {
	groups := make(map[*resource.Resource][]*tracepb.Span)
	order := make([]*resource.Resource, 0, 1)
	for _, s := range batch {
		if s == nil {
			continue
		}
		if _, seen := groups[s.Resource]; !seen {
			order = append(order, s.Resource)
		}
		groups[s.Resource] = append(groups[s.Resource], toSpan(s))
	}

	out := make([]*tracepb.ResourceSpans, 0, len(order))
	for _, res := range order {
		out = append(out, &tracepb.ResourceSpans{
			Resource: toResource(res),
			ScopeSpans: []*tracepb.ScopeSpans{{
				Scope: &commonpb.InstrumentationScope{Name: scopeName},
				Spans: groups[res],
			}},
		})
	}
	return out
}

func toLogRecord(r *logmodel.Record) *logspb.LogRecord {
	rec := &logspb.LogRecord{
		TimeUnixNano:         toUnixNano(r.Time),
		ObservedTimeUnixNano: toUnixNano(r.ObservedTime),
		SeverityNumber:       logspb.SeverityNumber(r.Severity),
		SeverityText:         r.SeverityText,
		Body:                 &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: r.Body}},
		Attributes:           toKeyValues(r.Attributes()),
	}
	if sc := r.SpanContext(); sc.IsValid() {
		traceID := sc.TraceID()
		spanID := sc.SpanID()
		rec.TraceId = traceID[:]
		rec.SpanId = spanID[:]
		rec.Flags = uint32(sc.Flags())
	}
	return rec
}

func toResourceLogs(batch []*logmodel.Record) []*logspb.ResourceLogs {
	groups := make(map[*resource.Resource][]*logspb.LogRecord)
	order := make([]*resource.Resource, 0, 1)
	for _, r := range batch {
		if r == nil {
			continue
		}
		if _, seen := groups[r.Resource()]; !seen {
			order = append(order, r.Resource())
		}
		groups[r.Resource()] = append(groups[r.Resource()], toLogRecord(r))
	}

	out := make([]*logspb.ResourceLogs, 0, len(order))
	for _, res := range order {
		out = append(out, &logspb.ResourceLogs{
			Resource: toResource(res),
			ScopeLogs: []*logspb.ScopeLogs{{
				Scope:      &commonpb.InstrumentationScope{Name: scopeName},
				LogRecords: groups[res],
			}},
		})
	}
	return out
}

func toMetric(m metric.Metrics) *metricspb.Metric {
	out := &metricspb.Metric{
		Name:        m.Name,
		Description: m.Description,
		Unit:        m.Unit,
	}
	switch m.Kind {
	case metric.KindGauge:
		points := make([]*metricspb.NumberDataPoint, 0, len(m.DataPoints))
		for _, dp := range m.DataPoints {
			points = append(points, toNumberPoint(dp))
		}
		out.Data = &metricspb.Metric_Gauge{Gauge: &metricspb.Gauge{DataPoints: points}}
	case metric.KindHistogram:
		points := make([]*metricspb.HistogramDataPoint, 0, len(m.DataPoints))
		for _, dp := range m.DataPoints {
			sum := dp.Sum
			points = append(points, &metricspb.HistogramDataPoint{
				Attributes:        toKeyValues(dp.Attributes),
				StartTimeUnixNano: toUnixNano(dp.StartTime),
				TimeUnixNano:      toUnixNano(dp.Time),
				Count:             dp.Count,
				Sum:               &sum,
				ExplicitBounds:    dp.Bounds,
				BucketCounts:      dp.BucketCounts,
			})
		}
		out.Data = &metricspb.Metric_Histogram{Histogram: &metricspb.Histogram{
			DataPoints:             points,
			AggregationTemporality: metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_CUMULATIVE,
		}}
	default:
		points := make([]*metricspb.NumberDataPoint, 0, len(m.DataPoints))
		for _, dp := range m.DataPoints {
			points = append(points, toNumberPoint(dp))
		}
		out.Data = &metricspb.Metric_Sum{Sum: &metricspb.Sum{
			DataPoints:             points,
			AggregationTemporality: metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_CUMULATIVE,
			IsMonotonic:            m.Monotonic,
		}}
	}
	return out
}

func toNumberPoint(dp metric.DataPoint) *metricspb.NumberDataPoint {
	return &metricspb.NumberDataPoint{
		Attributes:        toKeyValues(dp.Attributes),
		StartTimeUnixNano: toUnixNano(dp.StartTime),
		TimeUnixNano:      toUnixNano(dp.Time),
		Value:             &metricspb.NumberDataPoint_AsDouble{AsDouble: dp.Value},
	}
}

func toResourceMetrics(batch []metric.Snapshot) []*metricspb.ResourceMetrics {
	out := make([]*metricspb.ResourceMetrics, 0, len(batch))
	for _, snap := range batch {
		metrics := make([]*metricspb.Metric, 0, len(snap.Metrics))
		for _, m := range snap.Metrics {
			metrics = append(metrics, toMetric(m))
		}
		out = append(out, &metricspb.ResourceMetrics{
			Resource: toResource(snap.Resource),
			ScopeMetrics: []*metricspb.ScopeMetrics{{
				Scope:   &commonpb.InstrumentationScope{Name: scopeName},
				Metrics: metrics,
			}},
		})
	}
	return out
}
