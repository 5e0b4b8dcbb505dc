package models

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ServerInput holds all the parameters given to a pcc server.
type ServerInput struct {

	// TCP port to listen to, on all interfaces
	Port uint16 `json:"port"`
	// Size of the buffer payloads are received into
	ChunkSize int `json:"chunk_size"`
	// Deadline for the whole exchange with a client, no deadline if zero
	Timeout time.Duration `json:"timeout"`

	// Address to expose Prometheus metrics on, disabled if empty
	MetricsAddr string `json:"metrics_addr,omitempty"`

	// URL of the APM Server receiving one transaction per connection, events are discarded if empty
	ApmServerUrl string `json:"apm_url,omitempty"`
	// Secret token of the APM Server
	ApmServerSecret string `json:"-"`
	// Service name passed to the tracer
	ServiceName string `json:"service_name"`

	// URL of the Elasticsearch instance where the final report is indexed, not indexed if empty
	ElasticsearchUrl string `json:"-"`
	// <username:password> of the Elasticsearch instance
	ElasticsearchAuth string `json:"-"`
	// Index name for the final report
	ReportIndex string `json:"-"`
}

// ClientInput holds all the parameters given to a pcc client.
type ClientInput struct {

	// Dotted decimal IPv4 address of the server
	ServerIP string `json:"server_ip"`
	// TCP port of the server
	ServerPort uint16 `json:"server_port"`
	// Path of the file to send
	Path string `json:"path"`
	// Size of the chunks the file is read and sent in
	ChunkSize int `json:"chunk_size"`
	// Deadline for the whole exchange with the server, no deadline if zero
	Timeout time.Duration `json:"timeout"`
}

// Addr returns the server address in host:port form.
func (in ClientInput) Addr() string {
	return net.JoinHostPort(in.ServerIP, strconv.Itoa(int(in.ServerPort)))
}

// ParsePort parses a 16 bit TCP port.
func ParsePort(s string) (uint16, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid port %q", s)
	}
	return uint16(port), nil
}

// ParseIPv4 validates a dotted decimal IPv4 address.
func ParseIPv4(s string) (string, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil || strings.Contains(s, ":") {
		return "", errors.Errorf("invalid IPv4 address %q", s)
	}
	return ip.To4().String(), nil
}
