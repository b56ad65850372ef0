// Package servicetest provides an in-process fake of the Theia Cloud REST service.
// It keeps sessions and workspaces in memory, checks the kind tag of every tagged
// request body and records each call so tests can assert on the wire traffic.
package servicetest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

// Call is a request received by the fake service.
type Call struct {
	Method    string
	Path      string
	Body      string
	Auth      string
	RequestID string
}

// Kind returns the kind tag of the call body, or an empty string.
func (c Call) Kind() string {
	return gjson.Get(c.Body, "kind").String()
}

// Session is a running session held by the fake service.
type Session struct {
	Name          string `json:"name"`
	AppDefinition string `json:"appDefinition"`
	User          string `json:"user"`
	Workspace     string `json:"workspace,omitempty"`
	URL           string `json:"url"`
	LastActivity  int64  `json:"lastActivity"`
}

// Workspace is a persisted workspace held by the fake service.
type Workspace struct {
	Name          string `json:"name"`
	Label         string `json:"label"`
	AppDefinition string `json:"appDefinition"`
	User          string `json:"user"`
	Active        bool   `json:"active"`
}

// Service is a fake Theia Cloud service. Configure the exported fields before
// serving requests; they are read under the service lock.
type Service struct {
	Router chi.Router

	// AppID is the application id the service answers ping with true for.
	AppID string
	// Host is the session host returned in launch URLs, without scheme.
	Host string
	// FailLaunches makes the next n launch calls fail with 500.
	FailLaunches int
	// LaunchError makes launches report success=false with this error.
	LaunchError string

	mu         sync.Mutex
	calls      []Call
	sessions   map[string]*Session
	workspaces map[string]*Workspace
	counter    int
}

// New creates a fake service for the given application id and mounts its handlers.
func New(appID string) *Service {
	s := &Service{
		AppID:      appID,
		Host:       "sessions.example.com",
		sessions:   make(map[string]*Session),
		workspaces: make(map[string]*Workspace),
	}
	s.mountHandlers()
	return s
}

// NewServer starts an httptest server backed by a new fake service.
// The server is closed when the test finishes.
func NewServer(t testing.TB, appID string) (*Service, *httptest.Server) {
	s := New(appID)
	srv := httptest.NewServer(s.Router)
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *Service) mountHandlers() {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/service", func(r chi.Router) {
		r.Get("/{appId}", wrap(s.ping))
		r.Post("/", wrap(s.launch))
		r.Route("/session", func(r chi.Router) {
			r.Get("/{appId}/{user}", wrap(s.listSessions))
			r.Post("/", wrap(s.startSession))
			r.Delete("/", wrap(s.stopSession))
			r.Patch("/", wrap(s.reportActivity))
		})
		r.Route("/workspace", func(r chi.Router) {
			r.Get("/{appId}/{user}", wrap(s.listWorkspaces))
			r.Post("/", wrap(s.createWorkspace))
			r.Delete("/", wrap(s.deleteWorkspace))
		})
	})
	s.Router = r
}

// record stores the call and replaces the body so handlers can read it again.
func (s *Service) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body.Close()
		}
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(body),
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// Calls returns a copy of the calls received so far.
func (s *Service) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns the number of calls received for method and path.
func (s *Service) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// AddSession seeds a running session.
func (s *Service) AddSession(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := sess
	s.sessions[sess.Name] = &cp
}

// AddWorkspace seeds a workspace.
func (s *Service) AddWorkspace(ws Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := ws
	s.workspaces[ws.Name] = &cp
}

// Sessions returns the names of the running sessions.
func (s *Service) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.sessions))
	for name := range s.sessions {
		names = append(names, name)
	}
	return names
}

// HasWorkspace reports whether a workspace with the given name exists.
func (s *Service) HasWorkspace(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.workspaces[name]
	return ok
}

func (s *Service) nextName(prefix string) string {
	s.counter++
	return fmt.Sprintf("%s-%d", prefix, s.counter)
}
