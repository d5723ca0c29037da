// Package report renders transient error banners from API error payloads.
package report

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"
)

// DefaultDelay is how long a banner stays visible after the last error.
const DefaultDelay = 5 * time.Second

// Reporter owns the error banner. Each ShowError replaces the pending hide
// timer, so the banner disappears DefaultDelay after the most recent error.
type Reporter struct {
	mu      sync.Mutex
	delay   time.Duration
	text    string
	visible bool
	timer   *time.Timer
	gen     uint64
}

// New creates a Reporter hiding the banner delay after each error.
func New(delay time.Duration) *Reporter {
	return &Reporter{delay: delay}
}

// ShowError formats payload, reveals the banner and restarts the hide timer.
func (r *Reporter) ShowError(payload string) {
	r.mu.Lock()
	r.text = Format(payload)
	r.visible = true
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen := r.gen
	r.timer = time.AfterFunc(r.delay, func() { r.hide(gen) })
	r.mu.Unlock()
}

// hide is a no-op when a newer error has been shown since gen was issued.
func (r *Reporter) hide(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen == r.gen {
		r.visible = false
	}
}

// Banner returns the current text and whether it is visible.
func (r *Reporter) Banner() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text, r.visible
}

// Stop cancels the pending hide timer.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
}

// Format renders a field-errors object ({"field": ["msg", ...], ...}) as
// "field: msg, msg; field: msg" keeping the payload's key order. An empty
// object renders as "". Any other payload is returned unchanged.
func Format(payload string) string {
	if parts, ok := fieldErrors(payload); ok {
		return strings.Join(parts, "; ")
	}
	return payload
}

func fieldErrors(payload string) ([]string, bool) {
	dec := json.NewDecoder(strings.NewReader(payload))

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var parts []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		field, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var msgs []string
		if err := dec.Decode(&msgs); err != nil || msgs == nil {
			return nil, false
		}
		parts = append(parts, field+": "+strings.Join(msgs, ", "))
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return parts, true
}
