package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pelangganpro-server/rfm"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// segmentRouter mounts the segment endpoints behind a middleware that stands
// in for the auth chain, so the handlers see an organization id.
func segmentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("organization_id", uuid.New())
		c.Next()
	})
	router.GET("/segments/stats", GetSegmentStats)
	router.GET("/segments/:key", GetSegmentDetail)
	return router
}

func TestGetSegmentStatsReturnsBareArray(t *testing.T) {
	original := loadRFMRecords
	defer func() { loadRFMRecords = original }()
	loadRFMRecords = func(orgID uuid.UUID) ([]rfm.Record, error) {
		return []rfm.Record{
			{RecencyScore: 5, FrequencyScore: 5, MonetaryScore: 5, Segment: "champions", TotalSpent: 1000},
			{RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1, Segment: "lost", TotalSpent: 50},
		}, nil
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/segments/stats", nil)
	segmentRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := strings.TrimSpace(w.Body.String())
	if !strings.HasPrefix(body, "[") {
		t.Fatalf("expected a top-level JSON array, got: %s", body)
	}

	var rows []rfm.SegmentStatsRow
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != len(rfm.Segments) {
		t.Fatalf("expected %d rows, got %d", len(rfm.Segments), len(rows))
	}
	if rows[0].Segment != "champions" {
		t.Fatalf("expected champions first, got %q", rows[0].Segment)
	}
	if rows[0].Count != 1 || rows[0].TotalRevenue != 1000 {
		t.Fatalf("unexpected champions row: %+v", rows[0])
	}
}

func TestGetSegmentStatsLoadError(t *testing.T) {
	original := loadRFMRecords
	defer func() { loadRFMRecords = original }()
	loadRFMRecords = func(orgID uuid.UUID) ([]rfm.Record, error) {
		return nil, errors.New("connection refused")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/segments/stats", nil)
	segmentRouter().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetSegmentDetailUnknownKey(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/segments/vip", nil)
	segmentRouter().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error         string   `json:"error"`
		ValidSegments []string `json:"valid_segments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "vip") {
		t.Fatalf("error should name the bad key, got %q", resp.Error)
	}
	if len(resp.ValidSegments) != len(rfm.Segments) {
		t.Fatalf("expected %d valid keys, got %v", len(rfm.Segments), resp.ValidSegments)
	}
	for i, s := range rfm.Segments {
		if resp.ValidSegments[i] != s.Key {
			t.Fatalf("valid_segments[%d] = %q, want %q", i, resp.ValidSegments[i], s.Key)
		}
	}
}
