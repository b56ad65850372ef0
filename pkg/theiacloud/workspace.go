package theiacloud

import (
	"context"
)

// ListWorkspaces returns the workspaces of req.User.
func (c *Client) ListWorkspaces(ctx context.Context, req WorkspaceListRequest, opts ...CallOption) ([]UserWorkspace, error) {
	return execute[[]UserWorkspace](ctx, c, req, opts, sendGet(servicePath("/service/workspace", req.AppID, req.User)))
}

// CreateWorkspace creates a workspace.
func (c *Client) CreateWorkspace(ctx context.Context, req WorkspaceCreationRequest, opts ...CallOption) (*WorkspaceCreationResponse, error) {
	rsp, err := execute[WorkspaceCreationResponse](ctx, c, req, opts, sendTagged(post, "/service/workspace", WorkspaceCreationRequestKind, req))
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// DeleteWorkspace deletes a workspace and reports whether the service deleted it.
func (c *Client) DeleteWorkspace(ctx context.Context, req WorkspaceDeletionRequest, opts ...CallOption) (bool, error) {
	return execute[bool](ctx, c, req, opts, sendTagged(del, "/service/workspace", WorkspaceDeletionRequestKind, req))
}
