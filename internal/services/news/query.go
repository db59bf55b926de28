package news

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"newsfeed/internal/apperr"
)

// Mode is the caller's requested resolution path.
type Mode string

const (
	ModeAuto         Mode = "auto"
	ModeTopHeadlines Mode = "top-headlines"
	ModeEverything   Mode = "everything"
)

// Endpoint is an upstream resource.
type Endpoint string

const (
	EndpointTopHeadlines Endpoint = "top-headlines"
	EndpointEverything   Endpoint = "everything"
)

const (
	DefaultCountry  = "us"
	DefaultPage     = 1
	DefaultPageSize = 12
	DefaultLanguage = "en"
	MaxPageSize     = 100
)

// Categories accepted by the headlines endpoint.
var Categories = []string{"general", "business", "technology", "entertainment", "health", "science", "sports"}

// SortOrders accepted by the search endpoint.
var SortOrders = []string{"relevancy", "popularity", "publishedAt"}

// routingKeys are consumed by the builder and never passed through.
// apiKey is listed so a caller can never supply the credential.
var routingKeys = map[string]bool{
	"type":     true,
	"mode":     true,
	"query":    true,
	"q":        true,
	"category": true,
	"country":  true,
	"page":     true,
	"pageSize": true,
	"language": true,
	"domains":  true,
	"sortBy":   true,
	"apiKey":   true,
}

// QueryRequest is the normalized caller-side request.
type QueryRequest struct {
	Mode     Mode
	Query    string
	Category string
	Country  string
	Page     int
	PageSize int
	Domains  string
	SortBy   string
	Language string
	// Extra holds unrecognized parameters, forwarded upstream unchanged.
	Extra url.Values
}

// ParseQueryRequest reads a QueryRequest from proxy query parameters.
// "query" takes precedence over "q"; "type" over "mode". An unknown mode
// resolves as auto. Category, sortBy and pageSize are forwarded as given and
// left for the upstream to judge; only page and pageSize that are not
// positive integers are rejected.
func ParseQueryRequest(v url.Values) (QueryRequest, error) {
	var req QueryRequest

	mode := strings.TrimSpace(v.Get("type"))
	if mode == "" {
		mode = strings.TrimSpace(v.Get("mode"))
	}
	switch Mode(mode) {
	case ModeTopHeadlines, ModeEverything:
		req.Mode = Mode(mode)
	default:
		req.Mode = ModeAuto
	}

	req.Query = strings.TrimSpace(v.Get("query"))
	if req.Query == "" {
		req.Query = strings.TrimSpace(v.Get("q"))
	}

	req.Category = strings.TrimSpace(v.Get("category"))
	req.SortBy = strings.TrimSpace(v.Get("sortBy"))

	var err error
	if req.Page, err = parsePositive(v.Get("page"), DefaultPage); err != nil {
		return req, invalid("invalid page value: %v", err)
	}
	if req.PageSize, err = parsePositive(v.Get("pageSize"), DefaultPageSize); err != nil {
		return req, invalid("invalid pageSize value: %v", err)
	}

	req.Country = strings.TrimSpace(v.Get("country"))
	req.Domains = strings.TrimSpace(v.Get("domains"))
	req.Language = strings.TrimSpace(v.Get("language"))

	for key, values := range v {
		if routingKeys[key] {
			continue
		}
		for _, value := range values {
			if value == "" {
				continue
			}
			if req.Extra == nil {
				req.Extra = url.Values{}
			}
			req.Extra.Add(key, value)
		}
	}

	return req.WithDefaults(), nil
}

// WithDefaults fills page, pageSize and language when unset.
func (r QueryRequest) WithDefaults() QueryRequest {
	if r.Mode == "" {
		r.Mode = ModeAuto
	}
	if r.Page <= 0 {
		r.Page = DefaultPage
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

// Endpoint resolves the upstream resource. A non-empty free-text query always
// selects search, even when top-headlines was requested explicitly; otherwise
// only an explicit everything mode selects search.
func (r QueryRequest) Endpoint() Endpoint {
	if strings.TrimSpace(r.Query) != "" || r.Mode == ModeEverything {
		return EndpointEverything
	}
	return EndpointTopHeadlines
}

// Values encodes r as proxy query parameters.
func (r QueryRequest) Values() url.Values {
	r = r.WithDefaults()
	v := url.Values{}
	for key, values := range r.Extra {
		for _, value := range values {
			v.Add(key, value)
		}
	}
	if r.Mode != ModeAuto {
		v.Set("type", string(r.Mode))
	}
	setIf(v, "q", r.Query)
	setIf(v, "category", r.Category)
	setIf(v, "country", r.Country)
	setIf(v, "domains", r.Domains)
	setIf(v, "sortBy", r.SortBy)
	v.Set("page", strconv.Itoa(r.Page))
	v.Set("pageSize", strconv.Itoa(r.PageSize))
	v.Set("language", r.Language)
	return v
}

// Builder materializes upstream requests. The credential is held here and
// nowhere else.
type Builder struct {
	baseURL string
	apiKey  string
}

// NewBuilder returns a Builder for the upstream rooted at baseURL.
func NewBuilder(baseURL, apiKey string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// Build produces exactly one upstream request for req.
func (b *Builder) Build(req QueryRequest) UpstreamRequest {
	req = req.WithDefaults()
	endpoint := req.Endpoint()

	var params []param
	switch endpoint {
	case EndpointEverything:
		params = appendIf(params, "q", strings.TrimSpace(req.Query))
		params = appendIf(params, "domains", req.Domains)
		params = appendIf(params, "sortBy", req.SortBy)
	default:
		country := req.Country
		if country == "" {
			country = DefaultCountry
		}
		params = append(params, param{"country", country})
		params = appendIf(params, "category", req.Category)
	}

	params = append(params,
		param{"page", strconv.Itoa(req.Page)},
		param{"pageSize", strconv.Itoa(req.PageSize)},
		param{"language", req.Language},
	)

	extraKeys := make([]string, 0, len(req.Extra))
	for key := range req.Extra {
		if !routingKeys[key] {
			extraKeys = append(extraKeys, key)
		}
	}
	sort.Strings(extraKeys)
	for _, key := range extraKeys {
		for _, value := range req.Extra[key] {
			params = appendIf(params, key, value)
		}
	}

	return UpstreamRequest{
		Endpoint: endpoint,
		baseURL:  b.baseURL,
		params:   params,
		apiKey:   b.apiKey,
	}
}

// UpstreamRequest is a fully materialized upstream call. Parameters keep a
// fixed order with the credential last.
type UpstreamRequest struct {
	Endpoint Endpoint
	baseURL  string
	params   []param
	apiKey   string
}

// URL returns the request URL including the credential.
func (u UpstreamRequest) URL() string {
	return u.url(u.apiKey)
}

// Redacted returns the request URL with the credential masked, for logging.
func (u UpstreamRequest) Redacted() string {
	return u.url("REDACTED")
}

// RawQuery returns the query string without the credential.
func (u UpstreamRequest) RawQuery() string {
	return encode(u.params)
}

// Values returns the parameters without the credential.
func (u UpstreamRequest) Values() url.Values {
	v := url.Values{}
	for _, p := range u.params {
		v.Add(p.key, p.value)
	}
	return v
}

func (u UpstreamRequest) url(key string) string {
	params := append([]param(nil), u.params...)
	params = append(params, param{"apiKey", key})
	return fmt.Sprintf("%s/%s?%s", u.baseURL, u.Endpoint, encode(params))
}

type param struct {
	key   string
	value string
}

func encode(params []param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

func appendIf(params []param, key, value string) []param {
	if value == "" {
		return params
	}
	return append(params, param{key, value})
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func parsePositive(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d must be positive", n)
	}
	return n, nil
}

func invalid(format string, args ...any) error {
	return apperr.New(apperr.KindValidation, fmt.Sprintf(format, args...))
}
