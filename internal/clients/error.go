package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the API with its error envelope
// flattened.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
	Code    string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// IsAuthEndpoint reports whether the failing call targeted /auth/*. A 401 from
// those is a credential problem, not an expired session.
func (e *APIError) IsAuthEndpoint() bool {
	p := "/" + strings.TrimPrefix(e.Path, "/")
	return p == "/auth" || strings.HasPrefix(p, "/auth/")
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func hasStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == status
}

func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }
func IsForbidden(err error) bool    { return hasStatus(err, http.StatusForbidden) }
func IsNotFound(err error) bool     { return hasStatus(err, http.StatusNotFound) }

// IsValidation reports a 400/422 carrying field-level errors.
func IsValidation(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity) &&
		len(apiErr.Fields) > 0
}

type errorEnvelope struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

type detailObject struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Code    string `json:"code"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Status: status, Method: method, Path: path}

	var env errorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil {
		flattenDetail(e, env.Detail)
		if e.Message == "" {
			e.Message = firstNonEmpty(env.Message, env.Error)
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// flattenDetail unwraps the three shapes "detail" takes: a plain string, a
// list of validation items, or an object with message/code.
func flattenDetail(e *APIError, raw json.RawMessage) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		e.Message = s
		return
	}

	var items []validationItem
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			msgs = append(msgs, it.Msg)
			if field := fieldFromLoc(it.Loc); field != "" {
				if e.Fields == nil {
					e.Fields = make(map[string]string)
				}
				if _, exists := e.Fields[field]; !exists {
					e.Fields[field] = it.Msg
				}
			}
		}
		e.Message = strings.Join(msgs, "; ")
		return
	}

	var obj detailObject
	if json.Unmarshal(raw, &obj) == nil {
		e.Message = firstNonEmpty(obj.Message, obj.Msg)
		e.Code = obj.Code
	}
}

// fieldFromLoc takes the last string element of a loc path such as
// ["body", "email"].
func fieldFromLoc(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" && s != "query" && s != "path" {
			return s
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
