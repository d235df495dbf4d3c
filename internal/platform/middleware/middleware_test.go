// Copyright (c) 2026 QuickShift. All rights reserved.

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quickshift/quickshift/internal/platform/middleware"
)

type fakeAppConfig struct {
	dev     bool
	origins []string
}

func (f fakeAppConfig) IsDevelopment() bool      { return f.dev }
func (f fakeAppConfig) AllowedOrigins() []string { return f.origins }

// corsRequest runs one request with the given Origin header through the CORS
// middleware and reports the Access-Control-Allow-Origin response header.
func corsRequest(cfg fakeAppConfig, origin string) string {
	handler := middleware.CORS(cfg)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", origin)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	return recorder.Header().Get("Access-Control-Allow-Origin")
}

/*
TestCORS_AllowedOrigins verifies the production allow-list: first-party
domains by suffix, configured extra origins by exact match, everything
else rejected — and development mode staying open.
*/
func TestCORS_AllowedOrigins(t *testing.T) {
	production := fakeAppConfig{origins: []string{"https://partner.example.com"}}

	// 1. First-party domains are always allowed
	assert.Equal(t, "https://app.quickshift.app", corsRequest(production, "https://app.quickshift.app"))

	// 2. A configured extra origin is allowed by exact match
	assert.Equal(t, "https://partner.example.com", corsRequest(production, "https://partner.example.com"))

	// 3. A subdomain of an extra origin is NOT an exact match
	assert.Empty(t, corsRequest(production, "https://evil.partner.example.com"))

	// 4. Unknown origins are rejected in production
	assert.Empty(t, corsRequest(production, "https://stranger.example.org"))

	// 5. Development mode allows any origin
	development := fakeAppConfig{dev: true}
	assert.Equal(t, "https://stranger.example.org", corsRequest(development, "https://stranger.example.org"))
}
