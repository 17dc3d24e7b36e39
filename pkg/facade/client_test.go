package facade

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestClientCrawlSuccess(t *testing.T) {
	var gotPath string
	var gotBody CrawlRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		env, err := OK(map[string]string{"title": "Example Domain"})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(env))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	data, err := c.Crawl(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, "/crawl", gotPath)
	assert.Equal(t, "https://example.com", gotBody.URL)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "Example Domain", payload["title"])
}

func TestClientLoginSendsSelectors(t *testing.T) {
	var gotBody LoginRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crawl/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		env, err := OK(map[string]bool{"authenticated": true})
		require.NoError(t, err)
		require.NoError(t, json.NewEncoder(w).Encode(env))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	_, err := c.Login(context.Background(), LoginRequest{
		URL:              "https://example.test/login",
		UsernameSelector: "#username",
		PasswordSelector: "#password",
		SubmitSelector:   "#submit",
		Username:         "student",
		Password:         "Password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "#username", gotBody.UsernameSelector)
	assert.Equal(t, "#password", gotBody.PasswordSelector)
	assert.Equal(t, "#submit", gotBody.SubmitSelector)
	assert.Equal(t, "student", gotBody.Username)
}

func TestClientFailureEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		require.NoError(t, json.NewEncoder(w).Encode(Fail("Connection failed")))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	data, err := c.ExtractForms(context.Background(), "https://unreachable.test")

	require.Error(t, err)
	assert.Nil(t, data, "failure envelope must not expose a payload")
	assert.Contains(t, err.Error(), "Connection failed")
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately closed

	c := NewClient(srv.URL, time.Second, testLogger())
	_, err := c.Crawl(context.Background(), "https://example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, testLogger())
	_, err := c.Crawl(context.Background(), "https://example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}
