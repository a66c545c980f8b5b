package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChatID(t *testing.T) {
	cases := []struct {
		phone string
		want  string
	}{
		{"+62 812-3456-7890", "6281234567890@c.us"},
		{"6281234567890", "6281234567890@c.us"},
		{"(0812) 345 678", "0812345678@c.us"},
	}
	for _, tc := range cases {
		if got := ChatID(tc.phone); got != tc.want {
			t.Fatalf("ChatID(%q) = %q, want %q", tc.phone, got, tc.want)
		}
	}
}

func TestGetSessionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/default" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Fatalf("missing api key header")
		}
		json.NewEncoder(w).Encode(WahaSessionStatus{Name: "default", Status: "WORKING"})
	}))
	defer server.Close()

	client := NewWahaClient(server.URL, "secret")
	status, err := client.GetSessionStatus("default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "WORKING" {
		t.Fatalf("got status %q, want WORKING", status.Status)
	}
}

func TestSendText(t *testing.T) {
	var got WahaTextMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sendText" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewWahaClient(server.URL, "")
	if err := client.SendText("default", "+62 812 3456 7890", "halo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ChatID != "6281234567890@c.us" || got.Text != "halo" || got.Session != "default" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestGatewayErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewWahaClient(server.URL, "")
	if err := client.StartSession("missing"); err == nil {
		t.Fatal("expected error for gateway failure, got nil")
	}
}
