// Package resource describes the entity producing telemetry: an immutable
// set of attributes attached to every exported batch's wrapping envelope.
package resource

import (
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lightline-io/lightline/internal/attribute"
)

// Well-known resource attribute keys.
const (
	ServiceNameKey       = "service.name"
	ServiceVersionKey    = "service.version"
	ServiceInstanceIDKey = "service.instance.id"
	SDKNameKey           = "telemetry.sdk.name"
	SDKLanguageKey       = "telemetry.sdk.language"
)

// Environment variables honored by Detect.
const (
	envServiceName = "OTEL_SERVICE_NAME"
	envAttributes  = "OTEL_RESOURCE_ATTRIBUTES"
)

const defaultServiceName = "unknown_service"

// Resource is an immutable set of attributes. The zero value is empty
// and usable.
type Resource struct {
	attrs []attribute.KeyValue
}

// New creates a resource from the given attributes. Duplicate keys keep
// the last value; invalid attributes are discarded; the result is sorted
// by key so equal resources compare equal.
func New(attrs ...attribute.KeyValue) *Resource {
	byKey := make(map[string]attribute.KeyValue, len(attrs))
	for _, kv := range attrs {
		if kv.Valid() {
			byKey[kv.Key] = kv
		}
	}
	out := make([]attribute.KeyValue, 0, len(byKey))
	for _, kv := range byKey {
		out = append(out, kv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return &Resource{attrs: out}
}

// Empty returns a resource with no attributes.
func Empty() *Resource { return &Resource{} }

// Default returns a resource carrying the SDK identity plus a generated
// service instance id.
func Default() *Resource {
	return New(
		attribute.String(ServiceNameKey, defaultServiceName),
		attribute.String(ServiceInstanceIDKey, uuid.NewString()),
		attribute.String(SDKNameKey, "lightline"),
		attribute.String(SDKLanguageKey, "go"),
	)
}

// Detect builds a resource from the environment: OTEL_SERVICE_NAME and
// the comma-separated key=value pairs of OTEL_RESOURCE_ATTRIBUTES,
// layered over Default. Malformed pairs are skipped, not fatal.
func Detect() *Resource {
	detected := []attribute.KeyValue{}
	if raw := os.Getenv(envAttributes); raw != "" {
		for _, pair := range strings.Split(raw, ",") {
			key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
			if !found || key == "" || value == "" {
				continue
			}
			detected = append(detected, attribute.String(key, value))
		}
	}
	if name := os.Getenv(envServiceName); name != "" {
		detected = append(detected, attribute.String(ServiceNameKey, name))
	}
	return Merge(Default(), New(detected...))
}

// Merge combines two resources. Attributes of b take precedence over
// attributes of a on key conflict.
func Merge(a, b *Resource) *Resource {
	if a == nil {
		a = Empty()
	}
	if b == nil {
		b = Empty()
	}
	combined := make([]attribute.KeyValue, 0, len(a.attrs)+len(b.attrs))
	combined = append(combined, a.attrs...)
	combined = append(combined, b.attrs...)
	return New(combined...)
}

// Attributes returns a copy of the resource's attributes, sorted by key.
func (r *Resource) Attributes() []attribute.KeyValue {
	if r == nil {
		return nil
	}
	cp := make([]attribute.KeyValue, len(r.attrs))
	copy(cp, r.attrs)
	return cp
}

// Get returns the value for key and whether it is present.
func (r *Resource) Get(key string) (attribute.Value, bool) {
	if r == nil {
		return attribute.Value{}, false
	}
	for _, kv := range r.attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// Len returns the number of attributes.
func (r *Resource) Len() int {
	if r == nil {
		return 0
	}
	return len(r.attrs)
}
