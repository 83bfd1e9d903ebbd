package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmi3ev1987/foodgram/internal/gateway/proxy"
)

func newAdminServer(t *testing.T) *httptest.Server {
	t.Helper()

	forward, err := url.Parse("http://backend:7000/api/")
	require.NoError(t, err)

	rules := proxy.NewRuleSet()
	require.NoError(t, rules.Add("static", &proxy.FileServerRule{PathPrefix: "/", Dir: "/static/", Alias: true}))
	require.NoError(t, rules.Add("backend-api", &proxy.RedirectRule{PathPrefix: "/api/", ForwardLocation: forward}))

	logger := zerolog.New(io.Discard)
	routes := []Route{
		NewVersionHandler(),
		NewHealthHandler(),
		NewRoutesHandler(rules),
	}
	srv := httptest.NewServer(NewRouter(routes, &logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthAndVersion(t *testing.T) {
	srv := newAdminServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(proxy.RequestIDHeader))

	resp, err = http.Get(srv.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutesListsRulesMostSpecificFirst(t *testing.T) {
	srv := newAdminServer(t)

	resp, err := http.Get(srv.URL + "/routes")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []proxy.RuleInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "/api/", infos[0].Prefix)
	assert.Equal(t, "proxy", infos[0].Kind)
	assert.Equal(t, "http://backend:7000/api/", infos[0].Target)
	assert.Equal(t, "/", infos[1].Prefix)
	assert.Equal(t, "static", infos[1].Kind)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newAdminServer(t)

	resp, err := http.Post(srv.URL+"/routes", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
