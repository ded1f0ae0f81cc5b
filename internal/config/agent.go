package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Exporter selector names accepted in the agent configuration.
const (
	ExporterNoop    = "noop"
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
)

// AgentConfig is the file-level configuration of the agent binary. The
// pipeline tunables themselves come from the environment; the file picks
// which exporters each signal fans out to and where diagnostics listen.
type AgentConfig struct {
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exporters   ExportersConfig   `yaml:"exporters"`
}

// DiagnosticsConfig configures the diagnostics HTTP server.
type DiagnosticsConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures the diagnostic logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ExportersConfig names the exporters each signal fans out to.
type ExportersConfig struct {
	Traces  []string `yaml:"traces"`
	Logs    []string `yaml:"logs"`
	Metrics []string `yaml:"metrics"`
}

// DefaultAgent returns the default agent configuration: console
// exporters everywhere, diagnostics on :13133.
func DefaultAgent() *AgentConfig {
	return &AgentConfig{
		Diagnostics: DiagnosticsConfig{Addr: ":13133"},
		Logging:     LoggingConfig{Level: "info"},
		Exporters: ExportersConfig{
			Traces:  []string{ExporterConsole},
			Logs:    []string{ExporterConsole},
			Metrics: []string{ExporterConsole},
		},
	}
}

// LoadAgent reads the YAML agent configuration at path, layered over the
// defaults. A missing path returns the defaults.
func LoadAgent(path string) (*AgentConfig, error) {
	cfg := DefaultAgent()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse agent config %q: %w", path, err)
	}
	if err := validateAgent(cfg); err != nil {
		return nil, fmt.Errorf("agent config %q: %w", path, err)
	}
	return cfg, nil
}

func validateAgent(cfg *AgentConfig) error {
	for _, names := range [][]string{cfg.Exporters.Traces, cfg.Exporters.Logs, cfg.Exporters.Metrics} {
		for _, name := range names {
			switch name {
			case ExporterNoop, ExporterConsole, ExporterOTLP:
			default:
				return fmt.Errorf("unknown exporter %q", name)
			}
		}
	}
	return nil
}
