package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lightline-io/lightline/internal/attribute"
	logmodel "github.com/lightline-io/lightline/internal/log"
	"github.com/lightline-io/lightline/internal/pipeline"
	"github.com/lightline-io/lightline/internal/resource"
	"github.com/lightline-io/lightline/internal/trace"
)

var demoRoutes = []string{"/api/users", "/api/orders", "/api/search", "/api/checkout"}

// runDemo emits a synthetic request trace with a correlated log record
// once per second until the context is cancelled. Roughly half the traces
// are sampled so the drop path is exercised too.
func runDemo(ctx context.Context, res *resource.Resource, spans *pipeline.SpanProcessor, logs *pipeline.LogProcessor) {
	gen := trace.DefaultIDGenerator()
	sampler := trace.ParentBased(trace.TraceIDRatio(0.5))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emitRequest(res, spans, logs, gen, sampler, rng)
		}
	}
}

func emitRequest(res *resource.Resource, spans *pipeline.SpanProcessor, logs *pipeline.LogProcessor, gen *trace.IDGenerator, sampler trace.Sampler, rng *rand.Rand) {
	traceID := gen.NewTraceID()
	route := demoRoutes[rng.Intn(len(demoRoutes))]

	result := sampler.ShouldSample(trace.SamplingParameters{
		Name:    route,
		Kind:    trace.KindServer,
		TraceID: traceID,
	})
	flags := trace.Flags(0).WithSampled(result.Decision == trace.RecordAndSample)

	rootCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  gen.NewSpanID(),
		Flags:   flags,
	})
	childCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:  traceID,
		SpanID:   gen.NewSpanID(),
		ParentID: rootCtx.SpanID(),
		Flags:    flags,
	})

	end := time.Now()
	dbLatency := time.Duration(1+rng.Intn(40)) * time.Millisecond
	total := dbLatency + time.Duration(1+rng.Intn(10))*time.Millisecond
	status := trace.Status{Code: trace.StatusOK}
	severity := logmodel.SeverityInfo
	if rng.Intn(10) == 0 {
		status = trace.Status{Code: trace.StatusError, Description: "upstream timeout"}
		severity = logmodel.SeverityError
	}

	spans.OnEnd(&trace.Snapshot{
		Context:   childCtx,
		Name:      "SELECT users",
		Kind:      trace.KindClient,
		StartTime: end.Add(-dbLatency),
		EndTime:   end,
		Attributes: []attribute.KeyValue{
			attribute.String("db.system", "postgresql"),
		},
		Resource: res,
	})
	spans.OnEnd(&trace.Snapshot{
		Context:   rootCtx,
		Name:      route,
		Kind:      trace.KindServer,
		Status:    status,
		StartTime: end.Add(-total),
		EndTime:   end,
		Attributes: []attribute.KeyValue{
			attribute.String("http.route", route),
			attribute.Int("http.status_code", demoStatusCode(status)),
		},
		Resource: res,
	})

	rec := logmodel.NewRecord(res)
	rec.Time = end
	rec.Severity = severity
	rec.Body = fmt.Sprintf("handled %s in %s", route, total)
	rec.AddAttributes(attribute.String("http.route", route))
	rec.SetSpanContext(rootCtx)
	logs.OnEmit(rec)
}

func demoStatusCode(s trace.Status) int {
	if s.Code == trace.StatusError {
		return 504
	}
	return 200
}
