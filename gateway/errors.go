package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
)

// FallbackMessage is shown when nothing better can be extracted.
const FallbackMessage = "An unexpected error occurred"

// ResponseError is a non-2xx backend response.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: backend responded %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap lets callers test for apperrors.ErrUnauthorized or apperrors.ErrBackend.
func (e *ResponseError) Unwrap() error {
	if e.StatusCode == 401 {
		return apperrors.ErrUnauthorized
	}
	return apperrors.ErrBackend
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// ErrorMessage turns a failed call into a user-facing message. Backend
// responses go through MessageFromBody; any other error uses its own text.
func ErrorMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}
	var respErr *ResponseError
	if apperrors.As(err, &respErr) {
		if msg := MessageFromBody(respErr.Body); msg != "" {
			return msg
		}
		return FallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

// MessageFromBody tries, in order: the detail array (each item rendered as
// "loc.path: msg", joined with ", "), the detail string, the message string
// and finally FallbackMessage. An empty detail array yields "".
func MessageFromBody(body []byte) string {
	var parsed struct {
		Detail  json.RawMessage `json:"detail"`
		Message any             `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return FallbackMessage
	}

	if len(parsed.Detail) > 0 {
		var items []validationItem
		// null leaves items nil; [] decodes to an empty, non-nil slice.
		if err := json.Unmarshal(parsed.Detail, &items); err == nil && items != nil {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, joinLoc(item.Loc)+": "+item.Msg)
			}
			return strings.Join(parts, ", ")
		}

		var detail string
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil && detail != "" {
			return detail
		}
	}

	if msg, ok := parsed.Message.(string); ok && msg != "" {
		return msg
	}
	return FallbackMessage
}

// joinLoc renders a location path. Elements may be field names or list indexes.
func joinLoc(loc []any) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		switch v := p.(type) {
		case string:
			parts = append(parts, v)
		case float64:
			parts = append(parts, fmt.Sprintf("%g", v))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, ".")
}
