package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightline-io/lightline/internal/attribute"
	"github.com/lightline-io/lightline/internal/config"
	logmodel "github.com/lightline-io/lightline/internal/log"
)

func TestLogProcessorRunsEnrichers(t *testing.T) {
	exp := &recordingExporter[*logmodel.Record]{}
	p := NewLogProcessor(exp, config.DefaultLogBatch(), Options{},
		func(r *logmodel.Record) {
			r.AddAttributes(attribute.String("deployment.environment", "test"))
		},
	)

	rec := logmodel.NewRecord(nil)
	rec.Body = "hello"
	p.OnEmit(rec)
	p.OnEmit(nil)

	batch, _ := p.takeBatch()
	require.Len(t, batch, 1)
	attrs := batch[0].Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "deployment.environment", attrs[0].Key)
	assert.Equal(t, "test", attrs[0].Value.AsString())
}
