package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newServers returns one fresh adapter per supported framework
func newServers() map[string]WebServer {
	return map[string]WebServer{
		"echo":  NewDefaultEchoAdapter(),
		"gin":   NewDefaultGinAdapter(),
		"fiber": NewFiberAdapter(),
	}
}

type response struct {
	Code   int
	Header http.Header
	Body   []byte
}

func (r response) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

// serve runs one request through the adapter without opening a socket
func serve(t *testing.T, ws WebServer, req *http.Request) response {
	t.Helper()

	if adapter, ok := ws.(*FiberAdapter); ok {
		resp, err := adapter.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return response{Code: resp.StatusCode, Header: resp.Header, Body: body}
	}

	handler, ok := ws.(http.Handler)
	require.True(t, ok, "%s adapter must implement http.Handler", ws.Name())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return response{Code: rec.Code, Header: rec.Header(), Body: rec.Body.Bytes()}
}

func postJSON(t *testing.T, path string, payload interface{}) *http.Request {
	t.Helper()
	var body []byte
	switch p := payload.(type) {
	case string:
		body = []byte(p)
	default:
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
