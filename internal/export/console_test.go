package export

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleExportWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	exp := NewConsole[map[string]int](&buf, nil)

	err := exp.Export(context.Background(), []map[string]int{
		{"a": 1},
		{"b": 2},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]int
	require.NoError(t, sonic.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, map[string]int{"a": 1}, first)
}

func TestConsoleExportTransform(t *testing.T) {
	var buf bytes.Buffer
	exp := NewConsole(&buf, func(v int) interface{} {
		return map[string]int{"value": v}
	})

	require.NoError(t, exp.Export(context.Background(), []int{7}))
	assert.JSONEq(t, `{"value":7}`, strings.TrimSpace(buf.String()))
}

func TestConsoleExportCancelled(t *testing.T) {
	var buf bytes.Buffer
	exp := NewConsole[int](&buf, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := exp.Export(ctx, []int{1, 2, 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleRunBlocksUntilCancel(t *testing.T) {
	exp := NewConsole[int](&bytes.Buffer{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, exp.Run(ctx))
}
