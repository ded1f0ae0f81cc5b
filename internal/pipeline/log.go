package pipeline

import (
	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/export"
	logmodel "github.com/lightline-io/lightline/internal/log"
)

// SignalLogs labels the log pipeline in logs and metrics.
const SignalLogs = "logs"

// Enricher mutates a log record at the last moment before ownership
// passes to the export path, typically to inject trace correlation
// metadata. Enrichers run synchronously inside OnEmit.
type Enricher func(*logmodel.Record)

// LogProcessor is the batch processor instantiation for log records.
// Every record passes the gate; unlike spans, logs carry no sampling
// decision.
type LogProcessor struct {
	*BatchProcessor[*logmodel.Record]
	enrichers []Enricher
}

// NewLogProcessor creates a log batch processor over the exporter.
func NewLogProcessor(exporter export.Exporter[*logmodel.Record], cfg config.BatchConfig, opts Options, enrichers ...Enricher) *LogProcessor {
	return &LogProcessor{
		BatchProcessor: NewBatchProcessor(SignalLogs, exporter, cfg,
			func(r *logmodel.Record) bool { return r != nil },
			opts),
		enrichers: enrichers,
	}
}

// OnEmit accepts a log record from the logger bridge. Enrichers may still
// mutate the record here; once OnEmit returns, the record belongs to the
// pipeline and must not be touched by the caller.
func (p *LogProcessor) OnEmit(r *logmodel.Record) {
	if r == nil {
		return
	}
	for _, enrich := range p.enrichers {
		enrich(r)
	}
	p.Enqueue(r)
}
