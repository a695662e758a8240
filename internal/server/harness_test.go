package server_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// httptestServer is a running test server plus a browser-like client:
// cookies persist across requests and redirects are followed, so a test
// reads like a user session.
type httptestServer struct {
	*httptest.Server
	client *http.Client
}

func newHTTPTestServer(t *testing.T, h http.Handler) *httptestServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &httptestServer{
		Server: ts,
		client: &http.Client{Jar: jar},
	}
}

// get follows redirects and returns the final page body.
func (ts *httptestServer) get(t *testing.T, path string) string {
	t.Helper()

	resp, err := ts.client.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// getNoRedirect returns the raw first response so redirect targets and
// status codes can be inspected. The body is drained and closed; only
// the status line and headers matter to callers.
func (ts *httptestServer) getNoRedirect(t *testing.T, path string) *http.Response {
	t.Helper()

	client := &http.Client{
		Jar: ts.client.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(ts.URL + path)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

// postForm submits a form, follows the redirect chain, and returns the
// final page body.
func (ts *httptestServer) postForm(t *testing.T, path string, form url.Values) string {
	t.Helper()

	resp, err := ts.client.Post(
		ts.URL+path,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
