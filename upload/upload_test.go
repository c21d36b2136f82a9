package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var png = Image{Filename: "tea.png", ContentType: "image/png", Data: []byte("\x89PNG....")}

func newTestClient(url string) *Client {
	c := NewClient(url, "demo", "unsigned", zap.NewNop())
	c.Backoff = time.Millisecond
	return c
}

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "unsigned", r.FormValue("upload_preset"))
		if _, header, err := r.FormFile("file"); assert.NoError(t, err) {
			assert.Equal(t, "tea.png", header.Filename)
		}
		w.Write([]byte(`{"secure_url":"https://res.example.com/tea.png"}`))
	}))
	defer srv.Close()

	url, err := newTestClient(srv.URL).Upload(context.Background(), png)
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/tea.png", url)
}

func TestUpload_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"secure_url":"https://res.example.com/ok.png"}`))
	}))
	defer srv.Close()

	url, err := newTestClient(srv.URL).Upload(context.Background(), png)
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/ok.png", url)
	assert.Equal(t, int32(3), calls.Load())
}

func TestUpload_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	url, err := newTestClient(srv.URL).Upload(context.Background(), png)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Empty(t, url)
	assert.Equal(t, int32(Attempts), calls.Load())
}

func TestUpload_ValidationBeforeRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	_, err := c.Upload(context.Background(), Image{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = c.Upload(context.Background(), Image{Filename: "big.jpg", ContentType: "image/jpeg", Data: make([]byte, MaxImageSize+1)})
	assert.ErrorIs(t, err, ErrTooLarge)

	c.Preset = ""
	_, err = c.Upload(context.Background(), png)
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Zero(t, calls.Load())
}

func TestUpload_ContextCancelStopsRetrying(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.Backoff = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Upload(ctx, png)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, int32(1), calls.Load())
}
