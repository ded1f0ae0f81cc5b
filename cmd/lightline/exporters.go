package main

import (
	"fmt"
	"os"

	"github.com/lightline-io/lightline/internal/config"
	"github.com/lightline-io/lightline/internal/export"
	"github.com/lightline-io/lightline/internal/export/otlp"
	logmodel "github.com/lightline-io/lightline/internal/log"
	"github.com/lightline-io/lightline/internal/logging"
	"github.com/lightline-io/lightline/internal/metric"
	"github.com/lightline-io/lightline/internal/trace"
)

// assemble resolves exporter names for one signal into a single exporter,
// wrapping multiple backends in a multiplexer.
func assemble[T any](names []string, console func() export.Exporter[T], otlpExp func() (export.Exporter[T], error)) (export.Exporter[T], error) {
	built := make([]export.Exporter[T], 0, len(names))
	for _, name := range names {
		switch name {
		case config.ExporterNoop:
			built = append(built, export.NewNoop[T]())
		case config.ExporterConsole:
			built = append(built, console())
		case config.ExporterOTLP:
			e, err := otlpExp()
			if err != nil {
				return nil, err
			}
			built = append(built, e)
		default:
			return nil, fmt.Errorf("unknown exporter %q", name)
		}
	}
	switch len(built) {
	case 0:
		return export.NewNoop[T](), nil
	case 1:
		return built[0], nil
	default:
		return export.NewMulti(built...), nil
	}
}

func buildSpanExporter(names []string, logger *logging.Logger) (export.Exporter[*trace.Snapshot], error) {
	return assemble(names,
		func() export.Exporter[*trace.Snapshot] {
			return export.NewConsole(os.Stdout, spanView)
		},
		func() (export.Exporter[*trace.Snapshot], error) {
			cfg := config.OTLPFromEnv("TRACES", logger)
			if cfg.Protocol == config.ProtocolGRPC {
				return otlp.NewTraceGRPC(cfg)
			}
			return otlp.NewTraceHTTP(cfg), nil
		},
	)
}

func buildLogExporter(names []string, logger *logging.Logger) (export.Exporter[*logmodel.Record], error) {
	return assemble(names,
		func() export.Exporter[*logmodel.Record] {
			return export.NewConsole(os.Stdout, logView)
		},
		func() (export.Exporter[*logmodel.Record], error) {
			cfg := config.OTLPFromEnv("LOGS", logger)
			if cfg.Protocol == config.ProtocolGRPC {
				return otlp.NewLogGRPC(cfg)
			}
			return otlp.NewLogHTTP(cfg), nil
		},
	)
}

func buildMetricExporter(names []string, logger *logging.Logger) (export.Exporter[metric.Snapshot], error) {
	return assemble(names,
		func() export.Exporter[metric.Snapshot] {
			return export.NewConsole(os.Stdout, metricView)
		},
		func() (export.Exporter[metric.Snapshot], error) {
			cfg := config.OTLPFromEnv("METRICS", logger)
			if cfg.Protocol == config.ProtocolGRPC {
				return otlp.NewMetricGRPC(cfg)
			}
			return otlp.NewMetricHTTP(cfg), nil
		},
	)
}
