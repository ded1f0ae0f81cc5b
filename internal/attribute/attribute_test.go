package attribute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		kv       KeyValue
		wantType Type
		want     interface{}
	}{
		{
			name:     "bool true",
			kv:       Bool("enabled", true),
			wantType: TypeBool,
			want:     true,
		},
		{
			name:     "bool false",
			kv:       Bool("enabled", false),
			wantType: TypeBool,
			want:     false,
		},
		{
			name:     "int",
			kv:       Int("count", 42),
			wantType: TypeInt64,
			want:     int64(42),
		},
		{
			name:     "negative int64",
			kv:       Int64("offset", -7),
			wantType: TypeInt64,
			want:     int64(-7),
		},
		{
			name:     "float64",
			kv:       Float64("ratio", 0.25),
			wantType: TypeFloat64,
			want:     0.25,
		},
		{
			name:     "string",
			kv:       String("service", "lightline"),
			wantType: TypeString,
			want:     "lightline",
		},
		{
			name:     "string slice",
			kv:       StringSlice("hosts", []string{"a", "b"}),
			wantType: TypeStringSlice,
			want:     []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.kv.Valid())
			assert.Equal(t, tt.wantType, tt.kv.Value.Type())
			assert.Equal(t, tt.want, tt.kv.Value.AsInterface())
		})
	}
}

func TestZeroValueInvalid(t *testing.T) {
	var kv KeyValue
	assert.False(t, kv.Valid())
	assert.Equal(t, TypeInvalid, kv.Value.Type())
	assert.Nil(t, kv.Value.AsInterface())
	assert.Equal(t, "<invalid>", kv.Value.Emit())
}

func TestStringSliceCopies(t *testing.T) {
	src := []string{"a", "b"}
	kv := StringSlice("hosts", src)
	src[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, kv.Value.AsStringSlice())

	// The accessor returns a copy too.
	got := kv.Value.AsStringSlice()
	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, kv.Value.AsStringSlice())
}

func TestEmit(t *testing.T) {
	assert.Equal(t, "true", Bool("k", true).Value.Emit())
	assert.Equal(t, "42", Int("k", 42).Value.Emit())
	assert.Equal(t, "0.5", Float64("k", 0.5).Value.Emit())
	assert.Equal(t, "hello", String("k", "hello").Value.Emit())
}
