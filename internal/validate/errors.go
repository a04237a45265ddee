// Package validate checks form input before it is sent to the API. It only
// rejects input the API would certainly reject; the API stays authoritative.
package validate

import (
	"sort"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

// Errors maps a form field name to its message. The empty key holds a
// form-level message.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string { return e[field] }

func (e Errors) Valid() bool { return len(e) == 0 }

// Fields returns the field names with errors in stable order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for k := range e {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MergeAPI folds API-side field errors into e. Field names from the API use
// the same snake_case names as the forms. Reports whether anything was merged.
func (e Errors) MergeAPI(err error) bool {
	apiErr, ok := clients.AsAPIError(err)
	if !ok || len(apiErr.Fields) == 0 {
		return false
	}
	for field, msg := range apiErr.Fields {
		e.Add(field, msg)
	}
	return true
}

func trimmed(v string) string { return strings.TrimSpace(v) }
