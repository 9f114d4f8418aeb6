package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWriteJSONOK(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONOK(rec, map[string]int{"laps": 57})

	if rec.Code != 200 {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["laps"] != 57 {
		t.Errorf("body = %v", body)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*httptest.ResponseRecorder)
		want int
	}{
		{"bad request", func(r *httptest.ResponseRecorder) { BadRequest(r, "missing driver") }, 400},
		{"not found", func(r *httptest.ResponseRecorder) { NotFound(r, "no such lap") }, 404},
		{"internal", func(r *httptest.ResponseRecorder) { InternalServerError(r, "boom") }, 500},
		{"unprocessable", func(r *httptest.ResponseRecorder) { UnprocessableEntity(r, "laps do not overlap") }, 422},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.fn(rec)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body missing message")
			}
		})
	}
}
