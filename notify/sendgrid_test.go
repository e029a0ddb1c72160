package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendGridNotifier_Send(t *testing.T) {
	var got sgMail
	var auth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	n := NewSendGridNotifier("key123", "mon@example.com", "Host Monitor", 5*time.Second)
	n.Endpoint = ts.URL

	err := n.Send(context.Background(), "subject here", "body here",
		[]string{"one@example.com", "two@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer key123" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
	if got.Subject != "subject here" {
		t.Errorf("unexpected subject %q", got.Subject)
	}
	if got.From.Email != "mon@example.com" || got.From.Name != "Host Monitor" {
		t.Errorf("unexpected from: %+v", got.From)
	}
	if len(got.Personalizations) != 2 {
		t.Fatalf("expected one personalization per recipient, got %d", len(got.Personalizations))
	}
	if got.Personalizations[1].To[0].Email != "two@example.com" {
		t.Errorf("unexpected recipient: %+v", got.Personalizations[1])
	}
	if len(got.Content) != 1 || got.Content[0].Type != "text/plain" || got.Content[0].Value != "body here" {
		t.Errorf("unexpected content: %+v", got.Content)
	}
}

func TestSendGridNotifier_NonSuccessStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	n := NewSendGridNotifier("bad", "mon@example.com", "", 5*time.Second)
	n.Endpoint = ts.URL

	if err := n.Send(context.Background(), "s", "b", []string{"one@example.com"}); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestSendGridNotifier_NoRecipientsIsError(t *testing.T) {
	n := NewSendGridNotifier("key", "mon@example.com", "", 5*time.Second)
	if err := n.Send(context.Background(), "s", "b", nil); err == nil {
		t.Error("expected error with no recipients")
	}
}
