package news_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsfeed/internal/apperr"
	"newsfeed/internal/services/news"
)

func TestForwardRelaysUpstreamResponse(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	}))
	defer upstream.Close()

	proxy := news.NewProxy(news.NewBuilder(upstream.URL+"/v2", "secret"), nil, 5*time.Second)
	relay, err := proxy.Forward(context.Background(), news.QueryRequest{Query: "stocks"})
	require.NoError(t, err)

	require.Equal(t, "/v2/everything", gotPath)
	require.Equal(t, "secret", gotKey)
	require.Equal(t, "stocks", gotQuery)
	require.Equal(t, http.StatusOK, relay.StatusCode)
	require.Equal(t, "application/json; charset=utf-8", relay.ContentType)
	require.JSONEq(t, `{"status":"ok","totalResults":0,"articles":[]}`, string(relay.Body))
}

func TestForwardRelaysUpstreamErrorsVerbatim(t *testing.T) {
	body := `{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(body))
	}))
	defer upstream.Close()

	proxy := news.NewProxy(news.NewBuilder(upstream.URL, "secret"), upstream.Client(), 0)
	relay, err := proxy.Forward(context.Background(), news.QueryRequest{})
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, relay.StatusCode)
	require.Equal(t, body, string(relay.Body))
	require.Equal(t, "application/json", relay.ContentType)
}

func TestForwardTransportFailureIsNetworkError(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	base := upstream.URL
	upstream.Close()

	proxy := news.NewProxy(news.NewBuilder(base, "secret"), nil, time.Second)
	_, err := proxy.Forward(context.Background(), news.QueryRequest{Query: "go"})
	require.Error(t, err)
	require.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
	require.NotContains(t, err.Error(), "secret")
}

func TestForwardHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer upstream.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	proxy := news.NewProxy(news.NewBuilder(upstream.URL, "secret"), nil, 5*time.Second)
	_, err := proxy.Forward(ctx, news.QueryRequest{})
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, apperr.KindNetwork, apperr.KindOf(err))
}
