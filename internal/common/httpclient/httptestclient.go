package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// HandlerDoer serves requests directly from an http.Handler.
// It uses httptest.NewRecorder to capture responses without making network calls.
type HandlerDoer struct {
	Handler http.Handler
}

// NewHandlerDoer returns a Doer that dispatches every request to h.
func NewHandlerDoer(h http.Handler) *HandlerDoer {
	return &HandlerDoer{Handler: h}
}

// Do serves req with the handler. A request whose context is already done fails
// with the context error, as a network transport would.
func (d *HandlerDoer) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	rr := httptest.NewRecorder()
	d.Handler.ServeHTTP(rr, req)
	resp := rr.Result()
	resp.Request = req
	return resp, nil
}
