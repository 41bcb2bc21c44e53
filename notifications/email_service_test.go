package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBrevoSendEmail(t *testing.T) {
	var got brevoPayload
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	svc := &BrevoService{APIKey: "k", SenderEmail: "noreply@example.com", SenderName: "Tutors", Endpoint: srv.URL, Client: srv.Client()}
	if err := svc.SendEmail(context.Background(), "", "lena@example.com", "Hi", "<p>x</p>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if apiKey != "k" {
		t.Fatalf("expected api key header, got %q", apiKey)
	}
	if len(got.To) != 1 || got.To[0]["name"] != "lena" {
		t.Fatalf("recipient name should default to the local part, got %+v", got.To)
	}
}

func TestBrevoSendEmailErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	svc := &BrevoService{APIKey: "k", SenderEmail: "a@b.c", SenderName: "n", Endpoint: srv.URL, Client: srv.Client()}
	if err := svc.SendEmail(context.Background(), "x", "not-an-email", "s", "b"); err == nil {
		t.Fatalf("expected invalid recipient error")
	}
	if err := svc.SendEmail(context.Background(), "x", "x@example.com", "s", "b"); err == nil {
		t.Fatalf("expected provider error")
	}
}

func TestNewEmailServiceWithoutCredentialsIsNoop(t *testing.T) {
	if _, ok := NewEmailService("", "a@b.c", "n").(Noop); !ok {
		t.Fatalf("expected Noop notifier")
	}
}
