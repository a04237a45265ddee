package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type memRepo struct {
	mu   sync.Mutex
	data map[string]session.Session
}

func newMemRepo() *memRepo { return &memRepo{data: map[string]session.Session{}} }

func (m *memRepo) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &s, nil
}

func (m *memRepo) Save(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = *s
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *memRepo) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

// signedInCookie stores a session and returns its cookie.
func signedInCookie(t *testing.T, mgr *session.Manager, admin bool) (*http.Cookie, *session.Session) {
	t.Helper()
	s, err := mgr.New()
	require.NoError(t, err)
	s.SignIn("tok-123", dto.User{ID: "u1", Email: "a@b.co", IsAdmin: admin})
	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Commit(context.Background(), rec, s))
	return rec.Result().Cookies()[0], s
}

func TestCorrelationID_GeneratesAndEchoes(t *testing.T) {
	var seen string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCorrelationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderCorrelationID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given", seen)
}

func TestSessions_SetsCookieAndToken(t *testing.T) {
	mgr := session.NewManager(newMemRepo(), session.Options{})
	cookie, _ := signedInCookie(t, mgr, false)

	var token string
	var s *session.Session
	h := Sessions(mgr, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = GetBearerToken(r.Context())
		s = GetSession(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "tok-123", token)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.UserID)

	// anonymous visitor gets a fresh cookie and no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, token)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "sid", rec.Result().Cookies()[0].Name)
}

func TestRequireAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := RequireAuth(ok)

	req := httptest.NewRequest(http.MethodGet, "/orders?page=2", nil)
	req = req.WithContext(WithSession(req.Context(), &session.Session{}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next="+url.QueryEscape("/orders?page=2"), rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Accept", "application/json")
	req = req.WithContext(WithSession(req.Context(), &session.Session{}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "/login", body.Redirect)

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req = req.WithContext(WithSession(req.Context(), &session.Session{Token: "t"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	forbidden := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) })
	h := RequireAdmin(forbidden)(ok)

	cases := []struct {
		name string
		sess *session.Session
		want int
	}{
		{"anonymous", &session.Session{}, http.StatusSeeOther},
		{"customer", &session.Session{Token: "t"}, http.StatusForbidden},
		{"admin", &session.Session{Token: "t", IsAdmin: true}, http.StatusTeapot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
			req = req.WithContext(WithSession(req.Context(), tc.sess))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestCSRF(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := CSRF(ok)
	s := &session.Session{CSRFToken: "good"}

	do := func(method string, body string, header string) int {
		req := httptest.NewRequest(method, "/cart/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header != "" {
			req.Header.Set(HeaderCSRFToken, header)
		}
		req = req.WithContext(WithSession(req.Context(), s))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodGet, "", ""))
	assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "product_id=p", ""))
	assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "csrf_token=bad", ""))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "csrf_token=good", ""))
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "", "good"))
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://shop.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardNeverAllowsCredentials(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	CORS([]string{"*"})(ok).ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = httptest.NewRecorder()
	CORS(nil)(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	req = req.WithContext(WithCorrelationID(req.Context(), "cid-9"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "cid-9", body.CorrelationID)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	h := Logging(log.New(&buf, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/items?x=1", nil))
	line := buf.String()
	assert.Contains(t, line, "POST /cart/items?x=1 201 5B")
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, WantsJSON(req))
	req.Header.Set("X-Requested-With", "fetch")
	assert.True(t, WantsJSON(req))
}

func TestLoginURLUsesRefererForPosts(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://shop.local/cart/items", nil)
	req.Header.Set("Referer", "http://shop.local/products/p1")
	assert.Equal(t, "/login?next=%2Fproducts%2Fp1", LoginURL(req))

	req.Header.Set("Referer", "http://elsewhere/steal")
	assert.Equal(t, "/login?next=%2Fcart%2Fitems", LoginURL(req))
}
