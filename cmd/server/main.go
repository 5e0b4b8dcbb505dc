package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heptio/workgroup"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elastic/hey-pcc/agent"
	"github.com/elastic/hey-pcc/es"
	"github.com/elastic/hey-pcc/models"
	"github.com/elastic/hey-pcc/out"
	"github.com/elastic/hey-pcc/server"
)

const flushTimeout = 5 * time.Second

var (
	chunkSize   = flag.Int("chunk", server.DefaultChunkSize, "size of the buffer payloads are received into")
	timeout     = flag.Duration("timeout", 0, "deadline for the whole exchange with a client, 0 for none")
	metricsAddr = flag.String("metrics-addr", "", "address to expose Prometheus metrics on, eg. :9100")
	apmUrl      = flag.String("apm-url", "", "APM Server URL, transactions are discarded if not set")
	apmSecret   = flag.String("apm-secret", "", "APM Server secret token")
	serviceName = flag.String("service-name", "pcc-server", "service name reported to APM Server")
	esUrl       = flag.String("es-url", "", "Elasticsearch URL to index the final report in, 'local' for http://localhost:9200")
	esAuth      = flag.String("es-auth", "", "Elasticsearch username:password")
	esIndex     = flag.String("es-index", es.DefaultIndex, "Elasticsearch index for the final report")
	verbose     = flag.Bool("v", false, "log every connection")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <port>\n", os.Args[0])
	flag.PrintDefaults()
}

// newInput builds the server configuration out of the flags and the positional arguments.
func newInput(args []string) (models.ServerInput, error) {
	if len(args) != 1 {
		return models.ServerInput{}, errors.New("exactly 1 argument is required: <port>")
	}
	port, err := models.ParsePort(args[0])
	if err != nil {
		return models.ServerInput{}, err
	}
	if *chunkSize <= 0 {
		return models.ServerInput{}, errors.Errorf("chunk size must be positive, got %d", *chunkSize)
	}
	return models.ServerInput{
		Port:              port,
		ChunkSize:         *chunkSize,
		Timeout:           *timeout,
		MetricsAddr:       *metricsAddr,
		ApmServerUrl:      *apmUrl,
		ApmServerSecret:   *apmSecret,
		ServiceName:       *serviceName,
		ElasticsearchUrl:  *esUrl,
		ElasticsearchAuth: *esAuth,
		ReportIndex:       *esIndex,
	}, nil
}

func main() {
	flag.Usage = usage
	flag.Parse()
	logger := out.NewLogger(*verbose)

	input, err := newInput(flag.Args())
	if err != nil {
		logger.Errorf("%s", err)
		usage()
		os.Exit(1)
	}
	os.Exit(run(logger, input))
}

func run(logger *out.Logger, input models.ServerInput) int {
	// Go listeners set SO_REUSEADDR
	ln, err := net.Listen("tcp4", fmt.Sprintf(":%d", input.Port))
	if err != nil {
		logger.Errorf("%s", errors.Wrap(err, "listening"))
		return 1
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	return serve(logger, input, ln, sigs, os.Stdout)
}

// serve runs the server on ln until a signal arrives on sigs, then prints the report to stdout.
// It returns the process exit code.
func serve(logger *out.Logger, input models.ServerInput, ln net.Listener, sigs <-chan os.Signal, stdout io.Writer) int {
	start := time.Now()

	tracer, err := agent.NewTracer(logger, input.ApmServerUrl, input.ApmServerSecret, input.ServiceName)
	if err != nil {
		ln.Close()
		logger.Errorf("%s", err)
		return 1
	}
	defer agent.Close(tracer, flushTimeout, logger)

	reg := prometheus.NewRegistry()
	var metrics *server.Metrics
	if input.MetricsAddr != "" {
		metrics = server.NewMetrics(reg)
	}
	srv := server.New(server.Config{ChunkSize: input.ChunkSize, Timeout: input.Timeout}, logger, tracer, metrics)

	var g workgroup.Group
	g.Add(func(stop <-chan struct{}) error {
		return srv.Coordinator().Watch(stop, sigs)
	})
	g.Add(func(stop <-chan struct{}) error {
		go func() {
			<-stop
			srv.Coordinator().Request()
		}()
		return srv.Serve(ln)
	})
	if input.MetricsAddr != "" {
		logger.Infof("exposing metrics on %s/metrics", input.MetricsAddr)
		g.Add(server.MetricsServer(input.MetricsAddr, reg))
	}
	if err := g.Run(); err != nil {
		logger.Errorf("%s", err)
		return 1
	}

	if err := srv.WriteReport(stdout); err != nil {
		logger.Errorf("%s", errors.Wrap(err, "printing report"))
		return 1
	}
	if input.ElasticsearchUrl != "" {
		indexReport(logger, input, srv.Report(input, start))
	}
	return 0
}

func indexReport(logger *out.Logger, input models.ServerInput, report models.Report) {
	conn, err := es.NewConnection(input.ElasticsearchUrl, input.ElasticsearchAuth)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		err = es.IndexReport(ctx, conn, input.ReportIndex, report)
	}
	if err != nil {
		logger.Errorf("%s", err)
		return
	}
	logger.Infof("report indexed with document Id %s", report.ReportId)
}
