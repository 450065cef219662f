package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/servicehub/servicehub/internal/domain/status"
)

func testProber() *Prober {
	return New(Config{Timeout: 5 * time.Second, UserAgent: "test", FollowRedirects: true, VerifyTLS: false})
}

func TestClassify_Totality(t *testing.T) {
	for code := 100; code < 600; code++ {
		st, _ := classify(code)
		require.True(t, st.Valid(), "code %d produced %q", code, st)
	}
}

func TestClassify_Taxonomy(t *testing.T) {
	cases := []struct {
		code    int
		want    status.Status
		message string
	}{
		{200, status.Online, ""},
		{204, status.Online, ""},
		{301, status.Online, ""},
		{399, status.Online, ""},
		{405, status.Online, "HTTP 405: Method Not Allowed (endpoint rejects GET but service is up)"},
		{401, status.Online, "HTTP 401: Unauthorized (service is up, authentication required)"},
		{404, status.Warning, "HTTP 404: Endpoint Not Found"},
		{403, status.Error, "HTTP 403: Forbidden"},
		{429, status.Error, "HTTP 429: Too Many Requests"},
		{500, status.Warning, "HTTP 500: Internal Server Error"},
		{503, status.Warning, "HTTP 503: Service Unavailable"},
	}
	for _, tc := range cases {
		st, msg := classify(tc.code)
		require.Equal(t, tc.want, st, "code %d", tc.code)
		require.Equal(t, tc.message, msg, "code %d", tc.code)
	}
}

func TestProbe_OnlineWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	res := testProber().Probe(context.Background(), srv.URL, time.Second)
	require.Equal(t, status.Online, res.Status)
	require.NotNil(t, res.StatusCode)
	require.Equal(t, http.StatusOK, *res.StatusCode)
	require.Empty(t, res.ErrorMessage)
	require.False(t, res.TimedOut)
	require.GreaterOrEqual(t, res.ResponseTime, int64(0))
}

func TestProbe_NotFoundIsWarning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	res := testProber().Probe(context.Background(), srv.URL, time.Second)
	require.Equal(t, status.Warning, res.Status)
	require.Equal(t, "HTTP 404: Endpoint Not Found", res.ErrorMessage)
}

func TestProbe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	res := testProber().Probe(context.Background(), srv.URL, time.Second)
	require.Equal(t, status.Offline, res.Status)
	require.True(t, res.TimedOut)
	require.Equal(t, int64(1000), res.ResponseTime)
	require.Equal(t, "Timeout after 1s", res.ErrorMessage)
	require.Nil(t, res.StatusCode)
}

func TestProbe_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := testProber().Probe(context.Background(), url, time.Second)
	require.Equal(t, status.Offline, res.Status)
	require.False(t, res.TimedOut)
	require.NotEmpty(t, res.ErrorMessage)
	require.Nil(t, res.StatusCode)
}

func TestProbe_ZeroTimeoutUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := testProber().Probe(context.Background(), srv.URL, 0)
	require.Equal(t, status.Online, res.Status)
}

func TestNormalizeURL(t *testing.T) {
	require.Equal(t, "http://example.com", normalizeURL("example.com"))
	require.Equal(t, "http://example.com", normalizeURL("  http://example.com "))
	require.Equal(t, "https://example.com", normalizeURL("https://example.com"))
	require.Equal(t, "", normalizeURL("  "))
}
