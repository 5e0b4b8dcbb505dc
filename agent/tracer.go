package agent

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.elastic.co/apm"
	apmtransport "go.elastic.co/apm/transport"
)

const userAgent = "hey-pcc"

// NewTracer returns a Go agent instance which reports each served connection as a transaction.
// Events go to the APM Server at serverUrl, or are discarded if serverUrl is empty.
func NewTracer(logger apm.Logger, serverUrl, serverSecret, serviceName string) (*apm.Tracer, error) {
	var transport apmtransport.Transport = apmtransport.Discard
	if serverUrl != "" {
		u, err := url.Parse(serverUrl)
		if err != nil {
			return nil, errors.Wrap(err, "invalid APM Server URL")
		}
		httpTransport, err := apmtransport.NewHTTPTransport()
		if err != nil {
			return nil, errors.Wrap(err, "creating APM transport")
		}
		httpTransport.SetServerURL(u)
		httpTransport.SetUserAgent(userAgent)
		if serverSecret != "" {
			httpTransport.SetSecretToken(serverSecret)
		}
		transport = httpTransport
	}

	tracer, err := apm.NewTracerOptions(apm.TracerOptions{
		ServiceName: serviceName,
		Transport:   transport,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating APM tracer")
	}
	tracer.SetLogger(logger)
	tracer.SetMetricsInterval(0) // disable metrics
	return tracer, nil
}

// Close flushes pending events within timeout, and closes the tracer.
func Close(tracer *apm.Tracer, timeout time.Duration, logger apm.Logger) {
	flushed := make(chan struct{})
	go func() {
		tracer.Flush(nil)
		close(flushed)
	}()

	flushWait := time.After(timeout)
	if timeout == 0 {
		flushWait = make(<-chan time.Time)
	}
	select {
	case <-flushed:
	case <-flushWait:
		// give up waiting for flush
		logger.Errorf("timed out waiting for flush to complete")
	}
	tracer.Close()
}
