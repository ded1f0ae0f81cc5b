package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/lightline-io/lightline/internal/logging"
)

// OTLP transport protocols.
const (
	ProtocolGRPC         = "grpc"
	ProtocolHTTPProtobuf = "http/protobuf"
	ProtocolHTTPJSON     = "http/json"
)

// Default OTLP endpoints per protocol.
const (
	DefaultOTLPGRPCEndpoint = "localhost:4317"
	DefaultOTLPHTTPEndpoint = "localhost:4318"
)

// OTLPConfig configures one OTLP transport exporter.
type OTLPConfig struct {
	Endpoint    string
	Protocol    string
	Insecure    bool
	Headers     map[string]string
	Compression string // "" or "gzip"
	Timeout     time.Duration
}

// DefaultOTLP returns the default OTLP exporter configuration.
func DefaultOTLP() OTLPConfig {
	return OTLPConfig{
		Endpoint: DefaultOTLPGRPCEndpoint,
		Protocol: ProtocolGRPC,
		Insecure: true,
		Timeout:  10 * time.Second,
	}
}

// rawOTLPEnv receives the raw OTLP exporter keys.
type rawOTLPEnv struct {
	Endpoint    string `envconfig:"ENDPOINT"`
	Protocol    string `envconfig:"PROTOCOL"`
	Insecure    string `envconfig:"INSECURE"`
	Headers     string `envconfig:"HEADERS"`
	Compression string `envconfig:"COMPRESSION"`
	Timeout     string `envconfig:"TIMEOUT"`
}

// OTLPFromEnv resolves the OTLP exporter configuration for a signal
// ("TRACES", "LOGS" or "METRICS"). Shared OTEL_EXPORTER_OTLP_* keys are
// applied first, then the signal-specific OTEL_EXPORTER_OTLP_<SIGNAL>_*
// keys override them; invalid values fall back fail-soft.
func OTLPFromEnv(signal string, logger *logging.Logger) OTLPConfig {
	if logger == nil {
		logger = logging.NewNop()
	}
	cfg := DefaultOTLP()

	for _, prefix := range []string{
		"OTEL_EXPORTER_OTLP",
		"OTEL_EXPORTER_OTLP_" + strings.ToUpper(signal),
	} {
		var raw rawOTLPEnv
		if err := envconfig.Process(prefix, &raw); err != nil {
			logger.Warn("failed to read OTLP exporter environment",
				zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		applyOTLPEnv(&cfg, raw, prefix, logger)
	}
	return cfg
}

func applyOTLPEnv(cfg *OTLPConfig, raw rawOTLPEnv, prefix string, logger *logging.Logger) {
	if raw.Endpoint != "" {
		cfg.Endpoint = raw.Endpoint
	}
	if raw.Protocol != "" {
		switch raw.Protocol {
		case ProtocolGRPC, ProtocolHTTPProtobuf, ProtocolHTTPJSON:
			cfg.Protocol = raw.Protocol
		default:
			logger.Warn("ignoring invalid environment value",
				zap.String("key", prefix+"_PROTOCOL"), zap.String("value", raw.Protocol))
		}
	}
	if raw.Insecure != "" {
		switch strings.ToLower(raw.Insecure) {
		case "true":
			cfg.Insecure = true
		case "false":
			cfg.Insecure = false
		default:
			logger.Warn("ignoring invalid environment value",
				zap.String("key", prefix+"_INSECURE"), zap.String("value", raw.Insecure))
		}
	}
	if raw.Headers != "" {
		if headers := parseHeaders(raw.Headers); len(headers) > 0 {
			cfg.Headers = headers
		} else {
			logger.Warn("ignoring invalid environment value",
				zap.String("key", prefix+"_HEADERS"), zap.String("value", raw.Headers))
		}
	}
	if raw.Compression != "" {
		switch raw.Compression {
		case "gzip":
			cfg.Compression = "gzip"
		case "none":
			cfg.Compression = ""
		default:
			logger.Warn("ignoring invalid environment value",
				zap.String("key", prefix+"_COMPRESSION"), zap.String("value", raw.Compression))
		}
	}
	cfg.Timeout = overrideDuration(cfg.Timeout, raw.Timeout, prefix+"_TIMEOUT", logger)
}

// parseHeaders parses the W3C Correlation-Context style k=v,k=v list used
// by OTEL_EXPORTER_OTLP_HEADERS.
func parseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || key == "" {
			return nil
		}
		headers[key] = value
	}
	return headers
}
