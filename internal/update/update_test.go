package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func withReleaseServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	old := releasesURL
	releasesURL = srv.URL
	t.Cleanup(func() { releasesURL = old })
}

func TestCheckReportsNewerRelease(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.2.0"}`))
	})

	res := Check(context.Background(), "1.1.0")
	if res == nil || res.LatestVersion != "1.2.0" {
		t.Fatalf("Check = %+v, want latest 1.2.0", res)
	}
}

func TestCheckQuietWhenCurrent(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.1.0"}`))
	})

	if res := Check(context.Background(), "v1.1.0"); res != nil {
		t.Fatalf("Check = %+v, want nil for matching version", res)
	}
}

func TestCheckQuietOnServerError(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if res := Check(context.Background(), "1.0.0"); res != nil {
		t.Fatalf("Check = %+v, want nil on API error", res)
	}
}
