package newsletter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResendClient_Send_PostsToEmailsEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody sendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewResendClient(&http.Client{Timeout: 5 * time.Second}, "re_test_key", server.URL)

	err := client.Send(context.Background(), "noreply@example.com", "owner@example.com", "件名", "本文")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotPath != "/emails" {
		t.Errorf("path = %q, want %q", gotPath, "/emails")
	}
	if gotAuth != "Bearer re_test_key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer re_test_key")
	}
	if gotBody.From != "noreply@example.com" || gotBody.To != "owner@example.com" {
		t.Errorf("body = %+v, want from/to to match", gotBody)
	}
}

func TestResendClient_Send_Non2xxStatus_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	client := NewResendClient(&http.Client{Timeout: 5 * time.Second}, "re_test_key", server.URL)

	err := client.Send(context.Background(), "bad", "owner@example.com", "件名", "本文")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestResendClient_Send_MissingAPIKey_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server without an API key")
	}))
	defer server.Close()

	client := NewResendClient(&http.Client{Timeout: 5 * time.Second}, "", server.URL)

	err := client.Send(context.Background(), "a@example.com", "b@example.com", "件名", "本文")
	if err == nil {
		t.Fatal("expected error when API key is not configured")
	}
}

func TestNewResendClient_EmptyEndpoint_UsesDefault(t *testing.T) {
	client := NewResendClient(&http.Client{}, "key", "")

	if client.endpoint != defaultEndpoint {
		t.Errorf("endpoint = %q, want %q", client.endpoint, defaultEndpoint)
	}
}
