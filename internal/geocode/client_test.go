package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.GeocodingConfig{BaseURL: srv.URL, UserAgent: "test-agent", Timeout: time.Second}, zap.NewNop())
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("q") != "3400 Broadway, Sacramento, CA" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		w.Write([]byte(`[{"lat":"38.5431","lon":"-121.4620","display_name":"x"}]`))
	})

	p := c.Geocode(context.Background(), FullAddress("3400 Broadway", "", "Sacramento", "CA"))
	if p == nil || p.Latitude != 38.5431 || p.Longitude != -121.4620 {
		t.Fatalf("point = %+v", p)
	}
}

func TestGeocodeFailuresReturnNil(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"no match": func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) },
		"status":   func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
		"garbage":  func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`<html>`)) },
		"bad lat":  func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[{"lat":"north","lon":"1"}]`)) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			if p := newTestClient(t, h).Geocode(context.Background(), "somewhere"); p != nil {
				t.Fatalf("expected nil, got %+v", p)
			}
		})
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { t.Error("blank address must not hit the network") })
	if c.Geocode(context.Background(), "   ") != nil {
		t.Fatal("blank address should be nil")
	}
}
