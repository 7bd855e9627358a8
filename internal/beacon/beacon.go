// Package beacon reports anonymous session summaries to an aggregation
// endpoint. Reporting is strictly best-effort: failures are returned for
// logging but never interrupt a session.
package beacon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 3 * time.Second

// Report is the payload posted after a session ends.
type Report struct {
	Mode      string  `json:"mode"`
	Contacts  int     `json:"contacts"`
	Attempts  int     `json:"attempts"`
	ElapsedS  float64 `json:"elapsed_s"`
	AvgWPM    int     `json:"avg_wpm"`
	Version   string  `json:"version"`
	Timestamp string  `json:"timestamp"`
}

// Beacon posts session reports. The zero value is unusable; use New.
type Beacon struct {
	url    string
	client *http.Client
}

// New builds a beacon for the given endpoint. An empty URL disables it.
func New(url string) *Beacon {
	return &Beacon{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Enabled reports whether an endpoint is configured.
func (b *Beacon) Enabled() bool {
	return b != nil && b.url != ""
}

// Send posts the report. A disabled beacon returns nil immediately.
func (b *Beacon) Send(ctx context.Context, r Report) error {
	if !b.Enabled() {
		return nil
	}
	if r.Timestamp == "" {
		r.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("beacon endpoint returned %s", resp.Status)
	}
	return nil
}
