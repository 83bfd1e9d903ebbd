package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLogGeneratesRequestID(t *testing.T) {
	var handlerSawID string
	srv := httptest.NewServer(AccessLog(testLogger(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerSawID = r.Header.Get(RequestIDHeader)
	})))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, handlerSawID)
	assert.Equal(t, handlerSawID, resp.Header.Get(RequestIDHeader))
}

func TestAccessLogKeepsClientRequestID(t *testing.T) {
	srv := httptest.NewServer(AccessLog(testLogger(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "client-id-1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "client-id-1", resp.Header.Get(RequestIDHeader))
}
