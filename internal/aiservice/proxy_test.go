package aiservice

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProxy_InjectsBearerAndForwardsVerbatim(t *testing.T) {
	var gotAuth, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer upstream.Close()

	p := &Proxy{upstream: upstream.URL, bearer: "secret-token", httpClient: &http.Client{Timeout: time.Second}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/ai-proxy", strings.NewReader(`{"submission_id":"s1"}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, p.Handler(c))

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, `{"submission_id":"s1"}`, gotBody)
	// Upstream status and body come back untouched.
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"success":true}`, rec.Body.String())
}

func TestProxy_UpstreamErrorStatusPassedThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream failure", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	p := &Proxy{upstream: upstream.URL, bearer: "secret-token", httpClient: &http.Client{Timeout: time.Second}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/ai-proxy", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	require.NoError(t, p.Handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProxy_Unconfigured(t *testing.T) {
	p := &Proxy{httpClient: &http.Client{Timeout: time.Second}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/ai-proxy", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	require.NoError(t, p.Handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
