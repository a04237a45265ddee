package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const HeaderCorrelationID = "X-Correlation-Id"

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxBearerToken   ctxKey = "bearer_token"
	ctxSession       ctxKey = "session"
)

func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}

		// expose to client + propagate to the API
		w.Header().Set(HeaderCorrelationID, cid)

		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), cid)))
	})
}

func WithCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, cid)
}

func GetCorrelationID(ctx context.Context) string {
	if v := ctx.Value(ctxCorrelationID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithBearerToken attaches the API access token for outgoing calls.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxBearerToken, token)
}

func GetBearerToken(ctx context.Context) string {
	if v := ctx.Value(ctxBearerToken); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
