// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfare-app/wayfare/internal/platform/ctxutil"
	"github.com/wayfare-app/wayfare/internal/platform/middleware"
)

/*
TestRealIP verifies proxy-aware client address resolution: header precedence,
first-hop extraction from multi-hop chains, and the direct-connection
fallback.
*/
func TestRealIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded header wins",
			forwarded:  "203.0.113.5",
			realIP:     "198.51.100.9",
			remoteAddr: "10.0.0.1:52000",
			want:       "203.0.113.5",
		},
		{
			name:       "multi-hop chain yields first address",
			forwarded:  "203.0.113.5, 198.51.100.9, 10.0.0.1",
			remoteAddr: "10.0.0.1:52000",
			want:       "203.0.113.5",
		},
		{
			name:       "real-ip header when no forwarded chain",
			realIP:     "198.51.100.9",
			remoteAddr: "10.0.0.1:52000",
			want:       "198.51.100.9",
		},
		{
			name:       "falls back to remote address host",
			remoteAddr: "192.0.2.44:52000",
			want:       "192.0.2.44",
		},
		{
			name:       "blank headers are skipped",
			forwarded:  "   ",
			remoteAddr: "192.0.2.44:52000",
			want:       "192.0.2.44",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, middleware.RealIP(request))
		})
	}
}

/*
TestClientIP_StoresResolvedAddress verifies that the middleware resolves the
client address once and makes it available to downstream handlers through the
request context.
*/
func TestClientIP_StoresResolvedAddress(t *testing.T) {
	var captured string
	handler := middleware.ClientIP()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		captured = ctxutil.GetClientIP(request.Context())
		writer.WriteHeader(http.StatusNoContent)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:52000"
	request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "203.0.113.5", captured)
}
