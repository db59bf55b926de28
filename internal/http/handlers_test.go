package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsfeed/internal/apperr"
	"newsfeed/internal/clock"
	apihttp "newsfeed/internal/http"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/services/news"
)

type stubForwarder struct {
	calls []news.QueryRequest
	relay *news.Relay
	err   error
}

func (s *stubForwarder) Forward(_ context.Context, req news.QueryRequest) (*news.Relay, error) {
	s.calls = append(s.calls, req)
	return s.relay, s.err
}

func newServer(f apihttp.Forwarder, opts apihttp.RouterOptions) *apihttp.Router {
	router := apihttp.NewRouter(opts)
	router.RegisterHealthRoutes(nil)
	router.RegisterNewsRoutes(apihttp.NewNewsHandler(f))
	return router
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func requireCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Headers"))
	require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) news.ErrorInfo {
	t.Helper()
	var body news.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestPreflightReturnsEmptyOK(t *testing.T) {
	router := newServer(&stubForwarder{}, apihttp.RouterOptions{})

	for _, path := range apihttp.NewsPaths {
		rec := serve(router, http.MethodOptions, path)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Body.String())
		requireCORS(t, rec)
	}
}

func TestBrowserPreflightReturnsOK(t *testing.T) {
	router := newServer(&stubForwarder{}, apihttp.RouterOptions{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/news", nil)
	req.Header.Set("Origin", "https://reader.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOtherMethodsAreRejected(t *testing.T) {
	f := &stubForwarder{}
	router := newServer(f, apihttp.RouterOptions{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := serve(router, method, "/api/v1/news?q=go")
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		require.Equal(t, news.ErrCodeMethodNotAllowed, decodeError(t, rec).Code)
		requireCORS(t, rec)
	}
	require.Empty(t, f.calls)
}

func TestFetchRelaysUpstreamVerbatim(t *testing.T) {
	body := `{"status":"error","code":"rateLimited","message":"rate limited"}`
	f := &stubForwarder{relay: &news.Relay{
		StatusCode:  http.StatusTooManyRequests,
		ContentType: "application/json",
		Body:        []byte(body),
	}}
	router := newServer(f, apihttp.RouterOptions{})

	rec := serve(router, http.MethodGet, "/.netlify/functions/fetchNews?type=everything&query=stocks&page=2&pageSize=12")

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, body, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	requireCORS(t, rec)

	require.Len(t, f.calls, 1)
	require.Equal(t, "stocks", f.calls[0].Query)
	require.Equal(t, 2, f.calls[0].Page)
	require.Equal(t, news.EndpointEverything, f.calls[0].Endpoint())
}

func TestFetchTransportFailure(t *testing.T) {
	f := &stubForwarder{err: apperr.Wrap(apperr.KindNetwork, errors.New("dial tcp"), "dial tcp: connection refused")}
	router := newServer(f, apihttp.RouterOptions{})

	rec := serve(router, http.MethodGet, "/api/v1/news")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	info := decodeError(t, rec)
	require.Equal(t, "NETWORK_ERROR", info.Code)
	require.Equal(t, "dial tcp: connection refused", info.Message)
	requireCORS(t, rec)
}

func TestFetchRejectsInvalidParameters(t *testing.T) {
	f := &stubForwarder{}
	router := newServer(f, apihttp.RouterOptions{})

	for _, query := range []string{"page=0", "page=two", "pageSize=-1"} {
		rec := serve(router, http.MethodGet, "/api/v1/news?"+query)
		require.Equal(t, http.StatusBadRequest, rec.Code, query)
		require.Equal(t, news.ErrCodeValidation, decodeError(t, rec).Code)
	}
	require.Empty(t, f.calls)
}

func TestFetchForwardsUnknownValues(t *testing.T) {
	f := &stubForwarder{relay: &news.Relay{StatusCode: http.StatusBadRequest, ContentType: "application/json",
		Body: []byte(`{"status":"error","code":"parameterInvalid","message":"bad category"}`)}}
	router := newServer(f, apihttp.RouterOptions{})

	rec := serve(router, http.MethodGet, "/api/v1/news?type=nope&category=weather&pageSize=500")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"status":"error","code":"parameterInvalid","message":"bad category"}`, rec.Body.String())
	require.Len(t, f.calls, 1)
	require.Equal(t, news.ModeAuto, f.calls[0].Mode)
	require.Equal(t, "weather", f.calls[0].Category)
	require.Equal(t, 500, f.calls[0].PageSize)
}

func TestFetchThroughRealProxy(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"title":"t","url":"u"}]}`))
	}))
	defer upstream.Close()

	proxy := news.NewProxy(news.NewBuilder(upstream.URL, "secret"), upstream.Client(), 0)
	router := newServer(proxy, apihttp.RouterOptions{})

	rec := serve(router, http.MethodGet, "/api/v1/news?type=everything&query=stocks&page=2&pageSize=12&apiKey=mine")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalResults":1`)
	require.True(t, strings.HasPrefix(gotQuery, "q=stocks&page=2&pageSize=12"))
	require.Contains(t, gotQuery, "apiKey=secret")
	require.NotContains(t, gotQuery, "mine")
	require.NotContains(t, gotQuery, "country")
	require.NotContains(t, gotQuery, "category")
}

func TestRateLimitedRouter(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	f := &stubForwarder{relay: &news.Relay{StatusCode: http.StatusOK, ContentType: "application/json", Body: []byte(`{}`)}}
	router := newServer(f, apihttp.RouterOptions{Limiter: ratelimit.New(1, time.Minute, clk)})

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/news").Code)
	rec := serve(router, http.MethodGet, "/api/v1/news")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	requireCORS(t, rec)
	require.Len(t, f.calls, 1)
}

func TestRateLimitedRouterKeysOnPeerAddress(t *testing.T) {
	call := func(router http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
		req.RemoteAddr = "203.0.113.7:40000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}
	relay := &news.Relay{StatusCode: http.StatusOK, ContentType: "application/json", Body: []byte(`{}`)}

	clk := clock.NewFake(time.Unix(0, 0))
	router := newServer(&stubForwarder{relay: relay}, apihttp.RouterOptions{Limiter: ratelimit.New(1, time.Minute, clk)})
	require.Equal(t, http.StatusOK, call(router, "1.2.3.1"))
	require.Equal(t, http.StatusTooManyRequests, call(router, "1.2.3.2"))

	trusted := newServer(&stubForwarder{relay: relay}, apihttp.RouterOptions{
		Limiter:           ratelimit.New(1, time.Minute, clk),
		TrustProxyHeaders: true,
	})
	require.Equal(t, http.StatusOK, call(trusted, "1.2.3.1"))
	require.Equal(t, http.StatusOK, call(trusted, "1.2.3.2"))
	require.Equal(t, http.StatusTooManyRequests, call(trusted, "1.2.3.1"))
}

func TestHealthRoutes(t *testing.T) {
	router := apihttp.NewRouter(apihttp.RouterOptions{})
	router.RegisterHealthRoutes(func() error { return errors.New("upstream credential missing") })

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health").Code)

	rec := serve(router, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "upstream credential missing")
}

func TestUnknownPath(t *testing.T) {
	router := newServer(&stubForwarder{}, apihttp.RouterOptions{})
	rec := serve(router, http.MethodGet, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, news.ErrCodeNotFound, decodeError(t, rec).Code)
}
