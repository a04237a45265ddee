package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validate"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const (
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgUnavailable    = "We couldn't reach the store right now. Please try again."
)

// Base carries what every handler needs to talk to the browser: rendering,
// the session, logging and the activity event publisher.
type Base struct {
	Render   *view.Renderer
	Sessions *session.Manager
	Logger   *log.Logger
	Events   events.Publisher
}

func (b *Base) session(r *http.Request) *session.Session {
	if s := middleware.GetSession(r.Context()); s != nil {
		return s
	}
	// Only reachable when a route is mounted outside the Sessions middleware.
	s, _ := b.Sessions.New()
	return s
}

func (b *Base) commit(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if err := b.Sessions.Commit(r.Context(), w, s); err != nil {
		b.Logger.Printf("session commit failed: %v cid=%s", err, middleware.GetCorrelationID(r.Context()))
	}
}

// flash queues a toast for the next rendered page.
func (b *Base) flash(w http.ResponseWriter, r *http.Request, kind session.FlashKind, msg string) {
	s := b.session(r)
	s.AddFlash(kind, msg)
	b.commit(w, r, s)
}

func (b *Base) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// back redirects to the same-origin referring page, or fallback.
func (b *Base) back(w http.ResponseWriter, r *http.Request, fallback string) {
	if ref := r.Referer(); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Host == r.Host && u.Path != "" {
			b.redirect(w, r, u.RequestURI())
			return
		}
	}
	b.redirect(w, r, fallback)
}

func (b *Base) html(w http.ResponseWriter, r *http.Request, status int, page string, p *view.Page) {
	b.Render.HTML(w, r, status, page, p)
}

func (b *Base) jsonError(w http.ResponseWriter, r *http.Request, status int, msg string, fields map[string]string) {
	view.JSON(w, status, model.ErrorResponse{
		Error:         msg,
		Fields:        fields,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// expired applies the global 401 rule: a 401 from anything but the auth
// endpoints means the API no longer accepts our token, so the session is
// destroyed and the visitor is sent to sign in again. Reports whether the
// response has been written.
func (b *Base) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	apiErr, ok := clients.AsAPIError(err)
	if !ok || apiErr.Status != http.StatusUnauthorized || apiErr.IsAuthEndpoint() {
		return false
	}

	s := b.session(r)
	s.SignOut()
	if rerr := b.Sessions.Renew(r.Context(), s); rerr != nil {
		b.Logger.Printf("session renew failed: %v cid=%s", rerr, middleware.GetCorrelationID(r.Context()))
	}
	s.AddFlash(session.FlashInfo, msgSessionExpired)
	b.commit(w, r, s)

	if view.WantsJSON(r) {
		view.JSON(w, http.StatusUnauthorized, model.ErrorResponse{
			Error:         "session expired",
			Redirect:      "/login",
			CorrelationID: middleware.GetCorrelationID(r.Context()),
		})
		return true
	}
	b.redirect(w, r, middleware.LoginURL(r))
	return true
}

// message is the text shown to the visitor for a failed API call.
func (b *Base) message(err error) string {
	if apiErr, ok := clients.AsAPIError(err); ok {
		if apiErr.Status >= 500 {
			return msgUnavailable
		}
		return apiErr.Message
	}
	return msgUnavailable
}

// status maps a failed call to the status we answer with.
func status(err error) int {
	if apiErr, ok := clients.AsAPIError(err); ok {
		if apiErr.Status >= 500 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func (b *Base) logError(r *http.Request, err error) {
	if _, ok := clients.AsAPIError(err); ok && status(err) < 500 {
		return
	}
	b.Logger.Printf("%s %s: %v cid=%s", r.Method, r.URL.Path, err, middleware.GetCorrelationID(r.Context()))
}

// fail answers a page load whose API call failed.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	if b.expired(w, r, err) {
		return
	}
	b.logError(r, err)

	code := status(err)
	if view.WantsJSON(r) {
		b.jsonError(w, r, code, b.message(err), nil)
		return
	}
	switch code {
	case http.StatusNotFound:
		b.html(w, r, code, "not_found", &view.Page{Title: "Not found"})
	case http.StatusForbidden:
		b.html(w, r, code, "forbidden", &view.Page{Title: "Access denied"})
	default:
		b.html(w, r, code, "error", &view.Page{Title: "Error", Data: b.message(err)})
	}
}

// failAction answers a form post whose API call failed with a toast on the
// page the visitor came from.
func (b *Base) failAction(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if b.expired(w, r, err) {
		return
	}
	b.logError(r, err)

	if view.WantsJSON(r) {
		b.jsonError(w, r, status(err), b.message(err), fieldsOf(err))
		return
	}
	b.flash(w, r, session.FlashError, b.message(err))
	b.back(w, r, fallback)
}

// formError folds a failed call into errs so the form can be shown again.
// Reports false when the response was already written.
func (b *Base) formError(w http.ResponseWriter, r *http.Request, err error, errs validate.Errors) bool {
	if b.expired(w, r, err) {
		return false
	}
	b.logError(r, err)
	if !errs.MergeAPI(err) {
		errs.Add("", b.message(err))
	}
	return true
}

func fieldsOf(err error) map[string]string {
	if apiErr, ok := clients.AsAPIError(err); ok {
		return apiErr.Fields
	}
	return nil
}

// formStatus is the status for a re-rendered form.
func formStatus(err error) int {
	if err == nil {
		return http.StatusUnprocessableEntity
	}
	if code := status(err); code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

// publish sends an activity event. Broker trouble never fails the request.
func (b *Base) publish(r *http.Request, send func(ctx context.Context) error) {
	if b.Events == nil {
		return
	}
	if err := send(context.WithoutCancel(r.Context())); err != nil {
		b.Logger.Printf("publish event failed: %v cid=%s", err, middleware.GetCorrelationID(r.Context()))
	}
}

func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func parseForm(r *http.Request) url.Values {
	_ = r.ParseForm()
	return r.PostForm
}
