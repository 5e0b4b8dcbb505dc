package main

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/hey-pcc/client"
	"github.com/elastic/hey-pcc/es"
	"github.com/elastic/hey-pcc/models"
	"github.com/elastic/hey-pcc/out"
	"github.com/elastic/hey-pcc/server"
)

func TestDefaultInput(t *testing.T) {
	input, err := newInput([]string{"8234"})
	require.NoError(t, err)
	assert.Equal(t, uint16(8234), input.Port)
	assert.Equal(t, server.DefaultChunkSize, input.ChunkSize)
	assert.Equal(t, es.DefaultIndex, input.ReportIndex)
	assert.Equal(t, "pcc-server", input.ServiceName)
	assert.Empty(t, input.MetricsAddr)
	assert.Empty(t, input.ElasticsearchUrl)
}

func TestInvalidArgs(t *testing.T) {
	for _, args := range [][]string{
		nil,
		{"8234", "extra"},
		{"port"},
		{"70000"},
	} {
		_, err := newInput(args)
		assert.Error(t, err, "%v", args)
	}
}

func TestServeUntilSignal(t *testing.T) {
	indexed := make(chan string, 1)
	fakeES := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			select {
			case indexed <- r.URL.Path:
			default:
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_index":"pcc-reports","_type":"_doc","_id":"x","_version":1,"result":"created"}`))
	}))
	defer fakeES.Close()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	input := models.ServerInput{
		ChunkSize:        4,
		ServiceName:      "pcc-test",
		ElasticsearchUrl: fakeES.URL,
		ReportIndex:      es.DefaultIndex,
	}
	logs := out.NewBufferWriter()
	sigs := make(chan os.Signal, 1)
	var stdout bytes.Buffer
	code := make(chan int, 1)
	go func() {
		code <- serve(out.NewLoggerTo(logs, true), input, ln, sigs, &stdout)
	}()

	conn, err := net.Dial("tcp4", ln.Addr().String())
	require.NoError(t, err)
	payload := []byte("AAA\tBB\n")
	res, err := client.Send(conn, bytes.NewReader(payload), uint32(len(payload)), 0)
	conn.Close()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), res.Printable)

	sigs <- syscall.SIGINT
	select {
	case c := <-code:
		assert.Equal(t, 0, c)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't exit after the signal")
	}

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 95)
	assert.Equal(t, "char ' ' : 0 times", lines[0])
	assert.Equal(t, "char 'A' : 3 times", lines['A'-32])
	assert.Equal(t, "char 'B' : 2 times", lines['B'-32])
	assert.Equal(t, "char '~' : 0 times", lines[94])

	select {
	case path := <-indexed:
		assert.True(t, strings.HasPrefix(path, "/pcc-reports/_doc/"), path)
	default:
		t.Fatal("report not indexed")
	}
	assert.Contains(t, logs.String(), "report indexed")
}

func TestServeFatalError(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	// the accept loop fails when the listener goes away without a request
	ln.Close()

	logs := out.NewBufferWriter()
	var stdout bytes.Buffer
	code := serve(out.NewLoggerTo(logs, false), models.ServerInput{ChunkSize: 4}, ln, make(chan os.Signal), &stdout)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), "accepting connection")
}
