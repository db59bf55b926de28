package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"newsfeed/internal/apperr"
	"newsfeed/internal/services/news"
)

// Paths the news endpoint is served under. The second keeps existing
// clients of the serverless function working.
var NewsPaths = []string{"/api/v1/news", "/.netlify/functions/fetchNews"}

// Forwarder performs one upstream call per request.
type Forwarder interface {
	Forward(ctx context.Context, req news.QueryRequest) (*news.Relay, error)
}

// NewsHandler handles news-related HTTP requests
type NewsHandler struct {
	forwarder Forwarder
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(forwarder Forwarder) *NewsHandler {
	return &NewsHandler{forwarder: forwarder}
}

// RegisterRoutes registers all news routes
func (h *NewsHandler) RegisterRoutes(r chi.Router) {
	for _, path := range NewsPaths {
		r.Get(path, h.Fetch)
		r.Options(path, h.Preflight)
	}
}

// Preflight answers CORS preflight requests. The headers are set by middleware.
func (h *NewsHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Fetch translates the query into a single upstream call and relays the
// upstream status and body unmodified.
func (h *NewsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	req, err := news.ParseQueryRequest(r.URL.Query())
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected news query")
		writeError(w, http.StatusBadRequest, news.ErrCodeValidation, err.Error())
		return
	}

	relay, err := h.forwarder.Forward(r.Context(), req)
	if err != nil {
		code := news.ErrCodeNetwork
		if apperr.KindOf(err) != apperr.KindNetwork {
			code = news.ErrCodeInternal
		}
		writeError(w, http.StatusInternalServerError, code, err.Error())
		return
	}

	w.Header().Set("Content-Type", relay.ContentType)
	w.WriteHeader(relay.StatusCode)
	if _, err := w.Write(relay.Body); err != nil {
		logger.Debug().Err(err).Msg("Writing relayed body failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, news.NewErrorResponse(code, message))
}
