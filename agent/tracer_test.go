package agent

import (
	"testing"
	"time"

	"github.com/elastic/hey-pcc/out"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardTracer(t *testing.T) {
	bw := out.NewBufferWriter()
	logger := out.NewLoggerTo(bw, false)

	tracer, err := NewTracer(logger, "", "", "pcc-test")
	require.NoError(t, err)
	tracer.StartTransaction("pcc connection", "request").End()
	Close(tracer, time.Second, logger)
	assert.NotContains(t, bw.String(), "[error]")
}

func TestInvalidServerUrl(t *testing.T) {
	_, err := NewTracer(out.NewLogger(false), "http://[::1", "", "pcc-test")
	assert.Error(t, err)
}
