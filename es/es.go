package es

import (
	"context"

	"github.com/olivere/elastic"
	"github.com/pkg/errors"

	"github.com/elastic/hey-pcc/models"
	"github.com/elastic/hey-pcc/strcoll"
)

const local = "http://localhost:9200"

// DefaultIndex is where reports are indexed unless told otherwise.
const DefaultIndex = "pcc-reports"

// Connection holds an elasticsearch client plus its URL
type Connection struct {
	*elastic.Client
	Url string
}

// NewConnection returns a client for the Elasticsearch node at `url`, with "username:password" credentials.
// "local" is short for http://localhost:9200
// No request is made until something is indexed.
func NewConnection(url, auth string) (Connection, error) {
	if url == "local" {
		url = local
	}
	username, password := strcoll.SplitKV(auth, ":")
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetBasicAuth(username, password),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	return Connection{client, url}, errors.Wrap(err, "Elasticsearch not known or reachable")
}

// IndexReport saves a server report, refreshing the index so the report is searchable right away.
func IndexReport(ctx context.Context, conn Connection, index string, report models.Report) error {
	if index == "" {
		index = DefaultIndex
	}
	_, err := conn.Index().
		Index(index).
		Type("_doc").
		Id(report.ReportId).
		BodyJson(report).
		Refresh("true").
		Do(ctx)
	return errors.Wrapf(err, "indexing report %s", report.ReportId)
}
