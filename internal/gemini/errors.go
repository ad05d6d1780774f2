package gemini

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidKey
	KindQuota
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidKey:
		return "invalid_key"
	case KindQuota:
		return "quota"
	case KindNetwork:
		return "network"
	}
	return "unknown"
}

// ValidationError is a classified upstream failure.
type ValidationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func ClassifyError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var classified *ValidationError
	if errors.As(err, &classified) {
		return classified
	}

	if code, ok := apiErrorCode(err); ok {
		return classifyStatus(code, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "permission denied"):
		return &ValidationError{Kind: KindInvalidKey, Message: "API key is invalid or has been revoked", Err: err}
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "rate limit"):
		return &ValidationError{Kind: KindQuota, Message: "API quota exceeded or rate limited", Err: err}
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "dial"),
		strings.Contains(msg, "no such host"):
		return &ValidationError{Kind: KindNetwork, Message: "network error reaching Gemini", Err: err}
	}
	return &ValidationError{Kind: KindUnknown, Message: "Gemini request failed", Err: err}
}

func classifyStatus(code int, err error) *ValidationError {
	switch {
	case code == http.StatusBadRequest:
		return &ValidationError{Kind: KindInvalidKey, Message: "bad request, API key may be malformed", Err: err}
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return &ValidationError{Kind: KindInvalidKey, Message: "API key is invalid, expired, or lacks permissions", Err: err}
	case code == http.StatusTooManyRequests:
		return &ValidationError{Kind: KindQuota, Message: "API rate limit exceeded, try again later", Err: err}
	case code >= 500:
		return &ValidationError{Kind: KindNetwork, Message: "Gemini API server error, try again later", Err: err}
	}
	return &ValidationError{Kind: KindUnknown, Message: "Gemini request failed", Err: err}
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
