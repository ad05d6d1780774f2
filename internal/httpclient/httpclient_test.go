package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	t.Run("default agent", func(t *testing.T) {
		client := New(Options{Timeout: 5 * time.Second})
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, DefaultUserAgent, got)
	})

	t.Run("caller header wins", func(t *testing.T) {
		client := New(Options{UserAgent: "ignored"})
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "custom/2")
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "custom/2", got)
	})
}

func TestNew_DefaultTimeout(t *testing.T) {
	client := New(Options{})
	assert.Equal(t, 120*time.Second, client.Timeout)
}
