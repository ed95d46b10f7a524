package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sglre6355/cakebot/internal/fetch"
	"github.com/sglre6355/cakebot/internal/modules/lookup/domain"
)

const notch = "069a79f4-44e9-4726-a5be-fca90e38aaf5"

func TestProfileClient_URL(t *testing.T) {
	c := NewProfileClient(nil, "https://example.com/{uuid_compact}?full={uuid}", "name")

	want := "https://example.com/069a79f444e94726a5befca90e38aaf5?full=" + notch
	if got := c.URL(notch); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestProfileClient_Lookup(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.UserAgent()
		fmt.Fprint(w, `{"id":"069a79f444e94726a5befca90e38aaf5","name":"Notch"}`)
	}))
	defer srv.Close()

	c := NewProfileClient(fetch.NewClient(srv.Client()).Get, srv.URL+"/profile/{uuid_compact}", "name")

	p, err := c.Lookup(context.Background(), notch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Notch" || p.ID != notch {
		t.Errorf("unexpected profile %+v", p)
	}
	if gotPath != "/profile/069a79f444e94726a5befca90e38aaf5" {
		t.Errorf("unexpected request path %q", gotPath)
	}
	if gotAgent != fetch.UserAgent {
		t.Errorf("expected user agent %q, got %q", fetch.UserAgent, gotAgent)
	}
}

func TestProfileClient_LookupNotFound(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewProfileClient(fetch.NewClient(srv.Client()).Get, srv.URL+"/{uuid}", "name")
		if _, err := c.Lookup(context.Background(), notch); !errors.Is(err, domain.ErrProfileNotFound) {
			t.Errorf("status %d: expected ErrProfileNotFound, got %v", status, err)
		}
		srv.Close()
	}
}

func TestProfileClient_LookupFailure(t *testing.T) {
	fetchErr := errors.New("connection refused")
	c := NewProfileClient(func(context.Context, string) (string, error) {
		return "", fetchErr
	}, "https://example.com/{uuid}", "name")

	if _, err := c.Lookup(context.Background(), notch); !errors.Is(err, fetchErr) {
		t.Errorf("expected fetch error, got %v", err)
	}
}
