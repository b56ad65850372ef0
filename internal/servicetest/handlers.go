package servicetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

type response struct {
	status int
	body   any
}

type handlerError struct {
	status int
	msg    string
}

func (e *handlerError) Error() string {
	return e.msg
}

type handlerFunc func(r *http.Request) (*response, error)

// wrap writes handler results as JSON and errors as {"error": msg}.
func wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rsp, err := h(r)
		if err != nil {
			status := http.StatusInternalServerError
			if he, ok := err.(*handlerError); ok {
				status = he.status
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, rsp.status, rsp.body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

func ok(body any) (*response, error) {
	return &response{status: http.StatusOK, body: body}, nil
}

func fail(status int, msg string) (*response, error) {
	return nil, &handlerError{status: status, msg: msg}
}

// readTagged reads the request body and checks its kind tag and application id.
func (s *Service) readTagged(r *http.Request, kind string) (gjson.Result, error) {
	b, _ := io.ReadAll(r.Body)
	if !gjson.ValidBytes(b) {
		return gjson.Result{}, &handlerError{http.StatusBadRequest, "invalid request body"}
	}
	body := gjson.ParseBytes(b)
	if got := body.Get("kind").String(); got != kind {
		return body, &handlerError{http.StatusBadRequest, "unexpected kind: " + got}
	}
	if body.Get("appId").String() != s.AppID {
		return body, &handlerError{http.StatusForbidden, "invalid app id"}
	}
	return body, nil
}

// pathParam returns the decoded route parameter. chi matches on RawPath when
// the request carries one, so parameters holding %2F or %2E arrive encoded.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Service) ping(r *http.Request) (*response, error) {
	return ok(pathParam(r, "appId") == s.AppID)
}

func (s *Service) launch(r *http.Request) (*response, error) {
	body, err := s.readTagged(r, "launchRequest")
	if err != nil {
		return nil, err
	}
	user := body.Get("user").String()
	if user == "" {
		return fail(http.StatusBadRequest, "user is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLaunches > 0 {
		s.FailLaunches--
		return fail(http.StatusInternalServerError, "session launch failed")
	}
	if s.LaunchError != "" {
		return ok(map[string]any{"success": false, "error": s.LaunchError})
	}

	workspace := ""
	if !body.Get("ephemeral").Bool() {
		workspace = body.Get("workspaceName").String()
		if workspace == "" {
			workspace = s.nextName("ws")
		}
		ws, exists := s.workspaces[workspace]
		if !exists {
			label := body.Get("label").String()
			if label == "" {
				label = workspace
			}
			ws = &Workspace{
				Name:          workspace,
				Label:         label,
				AppDefinition: body.Get("appDefinition").String(),
				User:          user,
			}
			s.workspaces[workspace] = ws
		}
		ws.Active = true
	}
	sess := s.startLocked(user, body.Get("appDefinition").String(), workspace)
	return ok(map[string]any{"success": true, "url": sess.URL})
}

func (s *Service) startLocked(user, appDefinition, workspace string) *Session {
	name := s.nextName("session")
	sess := &Session{
		Name:          name,
		AppDefinition: appDefinition,
		User:          user,
		Workspace:     workspace,
		URL:           s.Host + "/" + name + "/",
		LastActivity:  time.Now().UnixMilli(),
	}
	s.sessions[name] = sess
	return sess
}

func (s *Service) listSessions(r *http.Request) (*response, error) {
	if pathParam(r, "appId") != s.AppID {
		return fail(http.StatusForbidden, "invalid app id")
	}
	user := pathParam(r, "user")
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []Session{}
	for _, sess := range s.sessions {
		if sess.User == user {
			result = append(result, *sess)
		}
	}
	return ok(result)
}

func (s *Service) startSession(r *http.Request) (*response, error) {
	body, err := s.readTagged(r, "sessionStartRequest")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.startLocked(body.Get("user").String(), body.Get("appDefinition").String(), body.Get("workspaceName").String())
	return ok(map[string]any{"success": true, "url": sess.URL})
}

func (s *Service) stopSession(r *http.Request) (*response, error) {
	body, err := s.readTagged(r, "sessionStopRequest")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.sessions[body.Get("sessionName").String()]
	if !exists || sess.User != body.Get("user").String() {
		return ok(false)
	}
	delete(s.sessions, sess.Name)
	if ws, found := s.workspaces[sess.Workspace]; found {
		ws.Active = false
	}
	return ok(true)
}

func (s *Service) reportActivity(r *http.Request) (*response, error) {
	body, err := s.readTagged(r, "sessionActivityRequest")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, exists := s.sessions[body.Get("sessionName").String()]
	if !exists {
		return ok(false)
	}
	sess.LastActivity = time.Now().UnixMilli()
	return ok(true)
}

func (s *Service) listWorkspaces(r *http.Request) (*response, error) {
	if pathParam(r, "appId") != s.AppID {
		return fail(http.StatusForbidden, "invalid app id")
	}
	user := pathParam(r, "user")
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []Workspace{}
	for _, ws := range s.workspaces {
		if ws.User == user {
			result = append(result, *ws)
		}
	}
	return ok(result)
}

func (s *Service) createWorkspace(r *http.Request) (*response, error) {
	body, err := s.readTagged(r, "workspaceCreationRequest")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.nextName("ws")
	label := body.Get("label").String()
	if label == "" {
		label = name
	}
	ws := &Workspace{
		Name:          name,
		Label:         label,
		AppDefinition: body.Get("appDefinition").String(),
		User:          body.Get("user").String(),
	}
	s.workspaces[name] = ws
	return ok(map[string]any{"success": true, "workspace": ws})
}

func (s *Service) deleteWorkspace(r *http.Request) (*response, error) {
	body, err := s.readTagged(r, "workspaceDeletionRequest")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := body.Get("workspaceName").String()
	ws, exists := s.workspaces[name]
	if !exists || ws.User != body.Get("user").String() {
		return ok(false)
	}
	delete(s.workspaces, name)
	for sessName, sess := range s.sessions {
		if sess.Workspace == name {
			delete(s.sessions, sessName)
		}
	}
	return ok(true)
}
