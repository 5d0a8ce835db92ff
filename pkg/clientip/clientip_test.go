package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morshed33/xprs-go/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"ipv4 with port", "192.168.1.10:52311", "192.168.1.10"},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1"},
		{"bare ip", "10.0.0.1", "10.0.0.1"},
		{"garbage", "not-an-ip", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			r.Header.Set("X-Forwarded-For", "203.0.113.9")
			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}

func TestGetForwardedIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"first valid forwarded", map[string]string{"X-Forwarded-For": "bogus, 203.0.113.9, 10.0.0.2"}, "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"forwarded beats real ip", map[string]string{"X-Forwarded-For": "203.0.113.9", "X-Real-IP": "198.51.100.4"}, "203.0.113.9"},
		{"falls back to peer", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetForwardedIP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	capture := func(mw func(http.Handler) http.Handler) string {
		var got string
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = clientip.GetIPFromContext(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.1:1234"
		r.Header.Set("X-Forwarded-For", "203.0.113.9")
		h.ServeHTTP(httptest.NewRecorder(), r)
		return got
	}

	assert.Equal(t, "192.0.2.1", capture(clientip.Middleware))
	assert.Equal(t, "203.0.113.9", capture(clientip.New(true)))
}
