package server

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/struCoder/pidusage"

	"github.com/elastic/hey-pcc/models"
)

// Report describes everything served so far. It must not be called while Serve is running.
func (s *Server) Report(input models.ServerInput, start time.Time) models.Report {
	this, _ := os.Hostname()
	now := time.Now()
	r := models.Report{
		ReportId:     shortId(),
		ReporterHost: this,
		Timestamp:    now,
		Elapsed:      now.Sub(start).Seconds(),
		ServerInput:  input,

		CompletedConnections: s.stats.Completed,
		AbortedConnections:   s.stats.Aborted,
		Counts:               s.table.Map(),
		TotalPrintable:       s.table.Total(),
	}

	if stat, err := pidusage.GetStat(os.Getpid()); err == nil {
		cpu, mem := stat.CPU, int64(stat.Memory)
		r.CPU, r.Memory = &cpu, &mem
	} else {
		s.logger.Debugf("process stats unavailable: %s", err.Error())
	}
	return r
}

// shortId returns a short docId for elasticsearch documents. It is not an UUID
func shortId() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
