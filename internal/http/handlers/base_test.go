package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
)

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/orders":              "/orders",
		"/products?page=2":     "/products?page=2",
		"https://evil.example": "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"orders":               "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), "next=%q", in)
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, status(&clients.APIError{Status: http.StatusNotFound}))
	assert.Equal(t, http.StatusBadGateway, status(&clients.APIError{Status: http.StatusServiceUnavailable}))
	assert.Equal(t, http.StatusGatewayTimeout, status(fmt.Errorf("api request failed: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusBadGateway, status(errors.New("connection refused")))

	assert.Equal(t, http.StatusUnprocessableEntity, formStatus(nil))
	assert.Equal(t, http.StatusConflict, formStatus(&clients.APIError{Status: http.StatusConflict}))
	assert.Equal(t, http.StatusBadGateway, formStatus(&clients.APIError{Status: http.StatusInternalServerError}))
}

func TestMessageHidesServerErrors(t *testing.T) {
	b := &Base{}
	assert.Equal(t, "Out of stock", b.message(&clients.APIError{Status: http.StatusConflict, Message: "Out of stock"}))
	assert.Equal(t, msgUnavailable, b.message(&clients.APIError{Status: http.StatusInternalServerError, Message: "stack trace"}))
	assert.Equal(t, msgUnavailable, b.message(errors.New("dial tcp: refused")))
}

func TestPageParam(t *testing.T) {
	for q, want := range map[string]int{"": 1, "?page=3": 3, "?page=0": 1, "?page=x": 1} {
		r := httptest.NewRequest(http.MethodGet, "/products"+q, nil)
		assert.Equal(t, want, pageParam(r), q)
	}
}
