package middleware

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

func Recover(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					cid := GetCorrelationID(r.Context())
					logger.Printf("panic: %v cid=%s\n%s", rec, cid, debug.Stack())

					if WantsJSON(r) {
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusInternalServerError)
						_ = json.NewEncoder(w).Encode(model.ErrorResponse{
							Error:         "internal server error",
							CorrelationID: cid,
						})
						return
					}

					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `<!doctype html><title>Something went wrong</title><h1>Something went wrong</h1><p>Please try again. Reference: %s</p>`, html.EscapeString(cid))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
