package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are safe to update concurrently with scrapes. A nil *Metrics discards everything.
type Metrics struct {
	connections  *prometheus.CounterVec
	payloadBytes prometheus.Counter
	printable    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		connections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcc_connections_total",
			Help: "Connections served, by outcome.",
		}, []string{"outcome"}),
		payloadBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "pcc_payload_bytes_total",
			Help: "Payload bytes received, including those of aborted connections.",
		}),
		printable: factory.NewCounter(prometheus.CounterOpts{
			Name: "pcc_printable_characters_total",
			Help: "Printable characters credited to the counter table.",
		}),
	}
}

func (m *Metrics) received(n int) {
	if m != nil {
		m.payloadBytes.Add(float64(n))
	}
}

func (m *Metrics) closed(outcome Outcome, printable uint32) {
	if m == nil {
		return
	}
	m.connections.WithLabelValues(outcome.String()).Inc()
	if outcome == Completed {
		m.printable.Add(float64(printable))
	}
}

// MetricsServer returns a function serving /metrics on addr until stop is closed.
func MetricsServer(addr string, gatherer prometheus.Gatherer) func(<-chan struct{}) error {
	return func(stop <-chan struct{}) error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: addr, Handler: mux}

		closed := make(chan struct{})
		go func() {
			select {
			case <-stop:
				srv.Close()
			case <-closed:
			}
		}()
		err := srv.ListenAndServe()
		close(closed)
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, "serving metrics")
	}
}
