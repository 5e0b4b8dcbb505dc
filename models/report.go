package models

import "time"

// Report is the document describing the lifetime of a server, indexed in Elasticsearch on shutdown.
type Report struct {
	// Elasticsearch doc id
	ReportId string `json:"report_id"`
	// Server host
	ReporterHost string `json:"reporter_host"`
	// @timestamp is the shutdown time
	Timestamp time.Time `json:"@timestamp"`
	// Seconds elapsed since the server started
	Elapsed float64 `json:"elapsed"`

	ServerInput

	// Connections that delivered a result
	CompletedConnections uint64 `json:"completed_connections"`
	// Connections that were dropped by the peer
	AbortedConnections uint64 `json:"aborted_connections"`
	// Printable characters counted, by character
	Counts map[string]uint64 `json:"counts"`
	// Sum of Counts
	TotalPrintable uint64 `json:"total_printable"`

	// CPU usage of the server process, as a percentage
	CPU *float64 `json:"cpu,omitempty"`
	// Resident memory of the server process, in bytes
	Memory *int64 `json:"memory,omitempty"`
}
