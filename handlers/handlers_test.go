package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{"nil becomes empty array", nil, "[]", false},
		{"valid json string passes through", `["vip","retail"]`, `["vip","retail"]`, false},
		{"string array is encoded", []interface{}{"vip", "retail"}, `["vip","retail"]`, false},
		{"empty array", []interface{}{}, `[]`, false},
		{"invalid json string", `not json`, "", true},
		{"non-string element", []interface{}{"vip", 42}, "", true},
		{"unsupported type", 42, "", true},
	}

	for _, tc := range cases {
		got, err := normalizeTags(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got %q", tc.name, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

// Malformed id values must be rejected with 400 before they reach Postgres,
// where the uuid comparison would fail and surface as a 500 instead.
func TestMalformedIDsRejectedBeforeSQL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("organization_id", uuid.New())
		c.Set("user_id", uuid.New().String())
		c.Next()
	})
	router.GET("/notes", GetNotes)
	router.GET("/contacts", GetContacts)
	router.GET("/activities", GetActivities)
	router.GET("/deals", GetDeals)
	router.POST("/extension/create-reminder", ExtensionCreateReminder)

	cases := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"notes contact filter", http.MethodGet, "/notes?contact_id=abc", ""},
		{"notes deal filter", http.MethodGet, "/notes?deal_id=abc", ""},
		{"contacts company filter", http.MethodGet, "/contacts?company_id=abc", ""},
		{"contacts owner filter", http.MethodGet, "/contacts?owner_id=abc", ""},
		{"activities contact filter", http.MethodGet, "/activities?contact_id=abc", ""},
		{"deals pipeline filter", http.MethodGet, "/deals?pipeline_id=abc", ""},
		{"reminder contact id", http.MethodPost, "/extension/create-reminder",
			`{"contact_id":"abc","title":"Follow up","due_at":"2026-09-01T09:00:00Z"}`},
	}

	for _, tc := range cases {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(tc.method, tc.target, nil)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", tc.name, w.Code, w.Body.String())
		}
	}
}

func TestMapWahaStatus(t *testing.T) {
	cases := map[string]string{
		"WORKING":      "connected",
		"STARTING":     "connecting",
		"SCAN_QR_CODE": "connecting",
		"STOPPED":      "disconnected",
		"FAILED":       "disconnected",
		"":             "disconnected",
	}

	for gateway, want := range cases {
		if got := mapWahaStatus(gateway); got != want {
			t.Fatalf("mapWahaStatus(%q) = %q, want %q", gateway, got, want)
		}
	}
}
