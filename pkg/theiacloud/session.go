package theiacloud

import (
	"context"
)

// ListSessions returns the sessions of req.User.
func (c *Client) ListSessions(ctx context.Context, req SessionListRequest, opts ...CallOption) ([]SessionSpec, error) {
	return execute[[]SessionSpec](ctx, c, req, opts, sendGet(servicePath("/service/session", req.AppID, req.User)))
}

// StartSession starts a session and returns the launch response unchanged, including
// unsuccessful ones.
func (c *Client) StartSession(ctx context.Context, req SessionStartRequest, opts ...CallOption) (*SessionLaunchResponse, error) {
	rsp, err := execute[SessionLaunchResponse](ctx, c, req, opts, sendTagged(post, "/service/session", SessionStartRequestKind, req))
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// StopSession stops a session and reports whether the service stopped it.
func (c *Client) StopSession(ctx context.Context, req SessionStopRequest, opts ...CallOption) (bool, error) {
	return execute[bool](ctx, c, req, opts, sendTagged(del, "/service/session", SessionStopRequestKind, req))
}

// ReportSessionActivity marks a session as active.
func (c *Client) ReportSessionActivity(ctx context.Context, req SessionActivityRequest, opts ...CallOption) (bool, error) {
	return execute[bool](ctx, c, req, opts, sendTagged(patch, "/service/session", SessionActivityRequestKind, req))
}
