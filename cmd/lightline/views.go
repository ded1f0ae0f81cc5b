package main

import (
	"time"

	"github.com/lightline-io/lightline/internal/attribute"
	logmodel "github.com/lightline-io/lightline/internal/log"
	"github.com/lightline-io/lightline/internal/metric"
	"github.com/lightline-io/lightline/internal/resource"
	"github.com/lightline-io/lightline/internal/trace"
)

// Console views flatten the pipeline's internal types into JSON-friendly
// shapes with hex-encoded identifiers.

func attrsView(attrs []attribute.KeyValue) map[string]interface{} {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(attrs))
	for _, kv := range attrs {
		out[kv.Key] = kv.Value.AsInterface()
	}
	return out
}

func resourceView(res *resource.Resource) map[string]interface{} {
	if res == nil {
		return nil
	}
	return attrsView(res.Attributes())
}

type spanEventView struct {
	Name       string                 `json:"name"`
	Time       time.Time              `json:"time"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type spanLinkView struct {
	TraceID    string                 `json:"trace_id"`
	SpanID     string                 `json:"span_id"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type spanJSON struct {
	TraceID    string                 `json:"trace_id"`
	SpanID     string                 `json:"span_id"`
	ParentID   string                 `json:"parent_id,omitempty"`
	Name       string                 `json:"name"`
	Kind       string                 `json:"kind"`
	Status     string                 `json:"status"`
	StatusDesc string                 `json:"status_description,omitempty"`
	Sampled    bool                   `json:"sampled"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time"`
	DurationMs float64                `json:"duration_ms"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Events     []spanEventView        `json:"events,omitempty"`
	Links      []spanLinkView         `json:"links,omitempty"`
	Resource   map[string]interface{} `json:"resource,omitempty"`
}

func spanView(s *trace.Snapshot) interface{} {
	sc := s.Context
	v := spanJSON{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		Name:       s.Name,
		Kind:       s.Kind.String(),
		Status:     s.Status.Code.String(),
		StatusDesc: s.Status.Description,
		Sampled:    sc.IsSampled(),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		DurationMs: float64(s.Duration()) / float64(time.Millisecond),
		Attributes: attrsView(s.Attributes),
		Resource:   resourceView(s.Resource),
	}
	if sc.ParentID().IsValid() {
		v.ParentID = sc.ParentID().String()
	}
	for _, ev := range s.Events {
		v.Events = append(v.Events, spanEventView{
			Name:       ev.Name,
			Time:       ev.Time,
			Attributes: attrsView(ev.Attributes),
		})
	}
	for _, ln := range s.Links {
		v.Links = append(v.Links, spanLinkView{
			TraceID:    ln.Context.TraceID().String(),
			SpanID:     ln.Context.SpanID().String(),
			Attributes: attrsView(ln.Attributes),
		})
	}
	return v
}

type logJSON struct {
	Time         time.Time              `json:"time"`
	ObservedTime time.Time              `json:"observed_time"`
	Severity     string                 `json:"severity"`
	SeverityText string                 `json:"severity_text,omitempty"`
	Body         string                 `json:"body"`
	TraceID      string                 `json:"trace_id,omitempty"`
	SpanID       string                 `json:"span_id,omitempty"`
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
	Resource     map[string]interface{} `json:"resource,omitempty"`
}

func logView(r *logmodel.Record) interface{} {
	v := logJSON{
		Time:         r.Time,
		ObservedTime: r.ObservedTime,
		Severity:     r.Severity.String(),
		SeverityText: r.SeverityText,
		Body:         r.Body,
		Attributes:   attrsView(r.Attributes()),
		Resource:     resourceView(r.Resource()),
	}
	if sc := r.SpanContext(); sc.IsValid() {
		v.TraceID = sc.TraceID().String()
		v.SpanID = sc.SpanID().String()
	}
	return v
}

type dataPointJSON struct {
	Attributes   map[string]interface{} `json:"attributes,omitempty"`
	Time         time.Time              `json:"time"`
	Value        float64                `json:"value,omitempty"`
	Count        uint64                 `json:"count,omitempty"`
	Sum          float64                `json:"sum,omitempty"`
	Bounds       []float64              `json:"bounds,omitempty"`
	BucketCounts []uint64               `json:"bucket_counts,omitempty"`
}

type metricJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Kind        string          `json:"kind"`
	Monotonic   bool            `json:"monotonic,omitempty"`
	DataPoints  []dataPointJSON `json:"data_points"`
}

type metricSnapshotJSON struct {
	Resource map[string]interface{} `json:"resource,omitempty"`
	Metrics  []metricJSON           `json:"metrics"`
}

func metricView(s metric.Snapshot) interface{} {
	v := metricSnapshotJSON{Resource: resourceView(s.Resource)}
	for _, m := range s.Metrics {
		mv := metricJSON{
			Name:        m.Name,
			Description: m.Description,
			Unit:        m.Unit,
			Kind:        m.Kind.String(),
			Monotonic:   m.Monotonic,
		}
		for _, dp := range m.DataPoints {
			mv.DataPoints = append(mv.DataPoints, dataPointJSON{
				Attributes:   attrsView(dp.Attributes),
				Time:         dp.Time,
				Value:        dp.Value,
				Count:        dp.Count,
				Sum:          dp.Sum,
				Bounds:       dp.Bounds,
				BucketCounts: dp.BucketCounts,
			})
		}
		v.Metrics = append(v.Metrics, mv)
	}
	return v
}
