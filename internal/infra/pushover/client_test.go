package pushover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientNotify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/messages.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.FormValue("token"); got != "app-token" {
			t.Errorf("token: got %q", got)
		}
		if got := r.FormValue("user"); got != "user-key" {
			t.Errorf("user: got %q", got)
		}
		if got := r.FormValue("message"); got != "Accepted 1 ticket(s):\n  TODO: ship it - dana" {
			t.Errorf("message: got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithURL("app-token", "user-key", server.URL)

	if err := client.Notify(context.Background(), "Accepted 1 ticket(s):\n  TODO: ship it - dana"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
}

func TestClientNotifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClientWithURL("app-token", "user-key", server.URL)

	if err := client.Notify(context.Background(), "anything"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestClientNotifyWithoutCredentialsIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClientWithURL("", "", server.URL)

	if err := client.Notify(context.Background(), "anything"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if called {
		t.Error("no request should be sent without credentials")
	}
}
