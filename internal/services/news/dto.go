package news

import (
	"encoding/json"
	"fmt"

	"newsfeed/internal/apperr"
)

// ErrorResponse is the body the proxy writes for failures it produces itself.
// Upstream error bodies are relayed as-is and never wrapped in this envelope.
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo carries a stable code and the underlying message.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used by the proxy in addition to the apperr kinds.
const (
	ErrCodeNetwork          = string(apperr.KindNetwork)
	ErrCodeValidation       = string(apperr.KindValidation)
	ErrCodeConfiguration    = string(apperr.KindConfiguration)
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimit        = "RATE_LIMIT"
)

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// upstreamError is the shape of a news provider error body.
type upstreamError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeError turns a non-2xx proxy response into a categorized error. It
// understands both the proxy's own envelope and relayed provider bodies.
func DecodeError(status int, body []byte) error {
	var envelope struct {
		upstreamError
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Status == "error" {
			msg := envelope.Message
			if msg == "" {
				msg = upstreamErrDefault
			}
			return apperr.Upstream(envelope.Code, msg)
		}

		var info ErrorInfo
		if len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &info) == nil && info.Code != "" {
			if info.Code == ErrCodeRateLimit {
				return apperr.Upstream(apperr.CodeRateLimited, info.Message)
			}
			return &apperr.Error{Kind: kindForCode(info.Code), Code: info.Code, Message: info.Message}
		}
	}

	return apperr.Upstream("", fmt.Sprintf("HTTP error! status: %d", status))
}

func kindForCode(code string) apperr.Kind {
	switch code {
	case ErrCodeNetwork:
		return apperr.KindNetwork
	case ErrCodeValidation:
		return apperr.KindValidation
	case ErrCodeConfiguration:
		return apperr.KindConfiguration
	}
	return apperr.KindUpstream
}
