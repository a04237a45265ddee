package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is what every template receives. Handlers set Title, Form, Errors
// and Data; the renderer fills in the rest from the request.
type Page struct {
	Title   string
	Data    any
	Form    url.Values
	Errors  validate.Errors
	Store   string
	Path    string
	Session *session.Session
	CSRF    string
	Flashes []session.Flash
}

func (p *Page) SignedIn() bool { return p.Session != nil && p.Session.SignedIn() }

func (p *Page) IsAdmin() bool { return p.Session != nil && p.Session.IsAdmin }

type Renderer struct {
	pages     map[string]*template.Template
	sessions  *session.Manager
	storeName string
	logger    *log.Logger
}

func NewRenderer(sessions *session.Manager, storeName string, logger *log.Logger) (*Renderer, error) {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, file := range names {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html", "templates/partials.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, sessions: sessions, storeName: storeName, logger: logger}, nil
}

// HTML renders the named page inside the layout. Pending flashes are
// consumed, so the session is written back before the body goes out.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, p *Page) {
	t, ok := rd.pages[name]
	if !ok {
		rd.logger.Printf("render: unknown template %q", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		p = &Page{}
	}
	if p.Errors == nil {
		p.Errors = validate.Errors{}
	}
	p.Store = rd.storeName
	p.Path = r.URL.Path

	if s := middleware.GetSession(r.Context()); s != nil {
		p.Session = s
		p.CSRF = s.CSRFToken
		if len(s.Flashes) > 0 {
			p.Flashes = s.PopFlashes()
			if err := rd.sessions.Commit(r.Context(), w, s); err != nil {
				rd.logger.Printf("render: commit session: %v cid=%s", err, middleware.GetCorrelationID(r.Context()))
			}
		}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		rd.logger.Printf("render %s: %v cid=%s", name, err, middleware.GetCorrelationID(r.Context()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Static serves the embedded scripts and stylesheets.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WantsJSON(r *http.Request) bool { return middleware.WantsJSON(r) }
