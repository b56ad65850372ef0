// Package browser implements the ways a launched session URL is handed to the user.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/juju/webbrowser"
)

// System opens URLs in the default web browser of the host.
type System struct{}

// Navigate opens rawURL in the system browser.
func (System) Navigate(_ context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid session URL: %w", err)
	}
	if err := webbrowser.Open(u); err != nil {
		return fmt.Errorf("unable to open %s: %w", rawURL, err)
	}
	return nil
}

// Writer prints URLs instead of opening them.
type Writer struct {
	W io.Writer
}

// Navigate writes rawURL on its own line.
func (w Writer) Navigate(_ context.Context, rawURL string) error {
	_, err := fmt.Fprintln(w.W, rawURL)
	return err
}

// Recorder remembers every URL it is asked to open.
type Recorder struct {
	mu   sync.Mutex
	urls []string
	// Err is returned from every Navigate call when set.
	Err error
}

// Navigate records rawURL.
func (r *Recorder) Navigate(_ context.Context, rawURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, rawURL)
	return r.Err
}

// URLs returns the recorded URLs in call order.
func (r *Recorder) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
