package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"newsfeed/internal/apperr"
)

const maxUpstreamBody = 10 << 20

// Relay is an upstream response passed back to the caller unmodified.
type Relay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Proxy forwards normalized requests to the upstream news API. It holds no
// per-request state.
type Proxy struct {
	builder   *Builder
	client    *http.Client
	userAgent string
}

// NewProxy creates a Proxy. A nil client gets a default one with timeout.
func NewProxy(builder *Builder, client *http.Client, timeout time.Duration) *Proxy {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Proxy{
		builder:   builder,
		client:    client,
		userAgent: "newsfeed-proxy/1.0",
	}
}

// Forward performs the upstream call. Any response, whatever its status, is
// returned as a Relay; only transport failures produce an error, always of
// kind apperr.KindNetwork.
func (p *Proxy) Forward(ctx context.Context, req QueryRequest) (*Relay, error) {
	upstream := p.builder.Build(req)

	logger := log.Ctx(ctx).With().
		Str("endpoint", string(upstream.Endpoint)).
		Str("upstream_url", upstream.Redacted()).
		Logger()
	logger.Debug().Msg("Forwarding upstream request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, upstream.URL(), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, err, fmt.Sprintf("build upstream request: %v", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		logger.Error().Err(redactErr(err, upstream)).Msg("Upstream request failed")
		return nil, apperr.Wrap(apperr.KindNetwork, err, redactErr(err, upstream).Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		logger.Error().Err(err).Msg("Reading upstream body failed")
		return nil, apperr.Wrap(apperr.KindNetwork, err, fmt.Sprintf("read upstream body: %v", err))
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Upstream responded")

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &Relay{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// redactErr strips the credential from transport errors, which embed the URL.
func redactErr(err error, upstream UpstreamRequest) error {
	msg := err.Error()
	full, masked := upstream.URL(), upstream.Redacted()
	if full == masked {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, full, masked))
}
