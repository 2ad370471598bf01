package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Credential() string { return string(s) }

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8080/api/", nil)
	assert.Equal(t, "http://localhost:8080/api", c.BaseURL())
}

func TestRequest_NoContentReturnsNil(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	raw, err := New(srv.URL, nil).Delete(context.Background(), "/announcements/42")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRequest_EmptySuccessBodyReturnsNil(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	raw, err := New(srv.URL, nil).Post(context.Background(), "/auth/register", map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRequest_ErrorMessageFromBody(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"X"}`)
	})

	_, err := New(srv.URL, nil).Get(context.Background(), "/tasks")
	require.Error(t, err)
	assert.Equal(t, "X", err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, apiErr.Transport())
}

func TestRequest_ErrorFieldFallback(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":"already marked"}`)
	})

	_, err := New(srv.URL, nil).Post(context.Background(), "/attendance/mark", nil)
	assert.EqualError(t, err, "already marked")
}

func TestRequest_UnparseableErrorBody(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := New(srv.URL, nil).Get(context.Background(), "/tasks")
	assert.EqualError(t, err, "HTTP error! Status: 502")
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestRequest_Headers(t *testing.T) {
	var got http.Header
	var gotBody map[string]string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"ok":true}`)
	})

	_, err := New(srv.URL, staticToken("abc")).Post(context.Background(), "/tasks/1/submit", map[string]string{"submissionLink": "https://x"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "https://x", gotBody["submissionLink"])
}

func TestRequest_NoCredentialNoHeader(t *testing.T) {
	var got http.Header
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := New(srv.URL, staticToken("")).Get(context.Background(), "/announcements")
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Get(context.Background(), "/tasks")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.True(t, apiErr.Transport())
	assert.NotEmpty(t, apiErr.Message)
}

func TestRequest_UnauthorizedHook(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid or expired token"}`)
	})

	var calls atomic.Int32
	c := New(srv.URL, staticToken("stale"), WithUnauthorizedHandler(func(context.Context) { calls.Add(1) }))

	_, err := c.Get(context.Background(), "/tasks")
	assert.EqualError(t, err, "Invalid or expired token")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequest_NoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := New(srv.URL, nil).Get(context.Background(), "/tasks")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	_, err := New(srv.URL, nil, WithTimeout(50*time.Millisecond)).Get(context.Background(), "/slow")
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}

func TestWithTimeout_DoesNotModifyCallerClient(t *testing.T) {
	shared := &http.Client{}
	c := New("http://example.invalid", nil, WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Zero(t, shared.Timeout)
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}
