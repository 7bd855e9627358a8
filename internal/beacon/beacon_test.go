package beacon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsReport(t *testing.T) {
	var got Report
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	b := New(srv.URL)
	err := b.Send(context.Background(), Report{Mode: "contest", Contacts: 5, AvgWPM: 22})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if contentType != "application/json" {
		t.Fatalf("content type = %q", contentType)
	}
	if got.Mode != "contest" || got.Contacts != 5 || got.AvgWPM != 22 {
		t.Fatalf("report = %+v", got)
	}
	if got.Timestamp == "" {
		t.Fatalf("timestamp should be filled in")
	}
}

func TestSendSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := New(srv.URL).Send(context.Background(), Report{}); err == nil {
		t.Fatalf("server error should be surfaced")
	}
}

func TestDisabledBeacon(t *testing.T) {
	if New("").Enabled() {
		t.Fatalf("empty URL should disable the beacon")
	}
	if err := New("").Send(context.Background(), Report{}); err != nil {
		t.Fatalf("disabled beacon Send = %v, want nil", err)
	}
}
