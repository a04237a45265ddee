package middleware

import (
	"net/http"
	"strings"
)

// WantsJSON reports whether the caller is an in-page script expecting JSON
// rather than a browser navigation expecting HTML.
func WantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "fetch") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
