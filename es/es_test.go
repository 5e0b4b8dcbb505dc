package es

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/hey-pcc/models"
)

func TestIndexReport(t *testing.T) {
	var method, path, user string
	var doc map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		user, _, _ = r.BasicAuth()
		body, _ := ioutil.ReadAll(r.Body)
		json.Unmarshal(body, &doc)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_index":"pcc-reports","_type":"_doc","_id":"abcd1234","_version":1,"result":"created"}`))
	}))
	defer srv.Close()

	conn, err := NewConnection(srv.URL, "elastic:changeme")
	require.NoError(t, err)

	report := models.Report{
		ReportId:             "abcd1234",
		CompletedConnections: 2,
		Counts:               map[string]uint64{"A": 3, "B": 3},
		TotalPrintable:       6,
	}
	require.NoError(t, IndexReport(context.Background(), conn, "", report))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/pcc-reports/_doc/abcd1234", path)
	assert.Equal(t, "elastic", user)
	assert.Equal(t, float64(6), doc["total_printable"])
	assert.Equal(t, map[string]interface{}{"A": float64(3), "B": float64(3)}, doc["counts"])
}

func TestIndexReportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"mapper_parsing_exception","reason":"failed to parse"},"status":400}`))
	}))
	defer srv.Close()

	conn, err := NewConnection(srv.URL, "")
	require.NoError(t, err)
	err = IndexReport(context.Background(), conn, "pcc", models.Report{ReportId: "x"})
	assert.Error(t, err)
}
