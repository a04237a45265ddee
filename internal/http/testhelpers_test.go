package http

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

type stubResponse struct {
	status int
	body   string
}

// apiStub stands in for the REST API. Routes are keyed "METHOD /path" with
// the /api/v1 prefix stripped; anything unknown is a 404 detail envelope.
type apiStub struct {
	mu       sync.Mutex
	routes   map[string]stubResponse
	requests []recordedRequest
}

func (a *apiStub) on(method, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[method+" "+path] = stubResponse{status: status, body: body}
}

func (a *apiStub) calls(method, path string) []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []recordedRequest
	for _, r := range a.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (a *apiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{
		Method:   r.Method,
		Path:     path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     string(b),
	})
	resp, ok := a.routes[r.Method+" "+path]
	a.mu.Unlock()

	if !ok {
		resp = stubResponse{status: http.StatusNotFound, body: `{"detail":"Not found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

type memRepo struct {
	mu   sync.Mutex
	data map[string]session.Session
}

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

type recordingPublisher struct {
	mu         sync.Mutex
	signedIn   []events.UserSignedInEnvelope
	itemsAdded []events.CartItemAddedEnvelope
	orders     []events.OrderPlacedEnvelope
}

func (p *recordingPublisher) PublishUserSignedIn(_ context.Context, ev events.UserSignedInEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signedIn = append(p.signedIn, ev)
	return nil
}

func (p *recordingPublisher) PublishCartItemAdded(_ context.Context, ev events.CartItemAddedEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.itemsAdded = append(p.itemsAdded, ev)
	return nil
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, ev events.OrderPlacedEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testApp struct {
	api       *apiStub
	repo      *memRepo
	sessions  *session.Manager
	publisher *recordingPublisher
	handler   http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	api := &apiStub{routes: map[string]stubResponse{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := log.New(io.Discard, "", 0)
	repo := &memRepo{data: map[string]session.Session{}}
	mgr := session.NewManager(repo, session.Options{CookieName: "sid", TTL: time.Hour})
	render, err := view.NewRenderer(mgr, "Test Shop", logger)
	require.NoError(t, err)

	base := clients.NewClient("api", srv.URL+"/api/v1", &http.Client{Timeout: 5 * time.Second})
	pub := &recordingPublisher{}

	h := NewRouter(Deps{
		Logger:       logger,
		Cfg:          config.Config{CORSAllowOrigins: []string{"*"}},
		Render:       render,
		Sessions:     mgr,
		Events:       pub,
		Auth:         clients.NewAuthController(base),
		Products:     clients.NewProductController(base),
		Cart:         clients.NewCartController(base),
		Orders:       clients.NewOrdersController(base),
		Users:        clients.NewUserController(base),
		Admin:        clients.NewAdminController(base),
		HealthProbes: []clients.HealthProbe{{Name: "api", Client: base, Path: "/health"}},
	})

	return &testApp{api: api, repo: repo, sessions: mgr, publisher: pub, handler: h}
}

// visitor is a browser: a cookie jar of one session.
type visitor struct {
	cookie *http.Cookie
	sess   *session.Session
}

func (a *testApp) anonymous(t *testing.T) *visitor {
	t.Helper()
	s, err := a.sessions.New()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, a.sessions.Commit(context.Background(), rec, s))
	return &visitor{cookie: rec.Result().Cookies()[0], sess: s}
}

func (a *testApp) signedIn(t *testing.T, admin bool) *visitor {
	t.Helper()
	s, err := a.sessions.New()
	require.NoError(t, err)
	s.SignIn("tok-1", dto.User{ID: "u-1", Email: "ada@example.com", Name: "Ada", IsAdmin: admin})
	rec := httptest.NewRecorder()
	require.NoError(t, a.sessions.Commit(context.Background(), rec, s))
	return &visitor{cookie: rec.Result().Cookies()[0], sess: s}
}

func (a *testApp) stored(t *testing.T, v *visitor) *session.Session {
	t.Helper()
	s, err := a.repo.Get(context.Background(), v.cookie.Value)
	require.NoError(t, err)
	return s
}

func (a *testApp) get(t *testing.T, v *visitor, path string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return a.serve(req, v, headers...)
}

// post submits form with the visitor's CSRF token added.
func (a *testApp) post(t *testing.T, v *visitor, path string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if v != nil && form.Get("csrf_token") == "" {
		form.Set("csrf_token", v.sess.CSRFToken)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.serve(req, v, headers...)
}

func (a *testApp) serve(req *http.Request, v *visitor, headers ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if v != nil {
		req.AddCookie(v.cookie)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

const cartJSON = `{"id":"c-1","items":[{"product_id":"p-1","name":"Red Shoe","quantity":2,"unit_price":10,"subtotal":20}],"subtotal":20,"total":20,"currency":"USD"}`
