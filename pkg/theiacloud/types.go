package theiacloud

// Kind tags identify the payload type of a request on the wire.
const (
	PingRequestKind              = "pingRequest"
	LaunchRequestKind            = "launchRequest"
	SessionListRequestKind       = "sessionListRequest"
	SessionStartRequestKind      = "sessionStartRequest"
	SessionStopRequestKind       = "sessionStopRequest"
	SessionActivityRequestKind   = "sessionActivityRequest"
	WorkspaceListRequestKind     = "workspaceListRequest"
	WorkspaceCreationRequestKind = "workspaceCreationRequest"
	WorkspaceDeletionRequestKind = "workspaceDeletionRequest"
)

// ServiceRequest is embedded in every request. ServiceURL addresses the service and is
// never sent; any path it carries is discarded when the API root is resolved.
type ServiceRequest struct {
	ServiceURL string `json:"-" validate:"required"`
	Kind       string `json:"kind,omitempty"`
}

func (r ServiceRequest) serviceRequest() ServiceRequest {
	return r
}

// Request is implemented by every request record of this package.
type Request interface {
	serviceRequest() ServiceRequest
}

// PingRequest checks whether the service serves the given application.
type PingRequest struct {
	ServiceRequest
	AppID string `json:"appId" validate:"required"`
}

// LaunchRequest starts a session, either ephemeral or bound to a workspace.
// Use EphemeralLaunch, CreateWorkspaceLaunch or ExistingWorkspaceLaunch to build one.
type LaunchRequest struct {
	ServiceRequest
	AppID         string `json:"appId" validate:"required"`
	User          string `json:"user" validate:"required"`
	AppDefinition string `json:"appDefinition,omitempty"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	Label         string `json:"label,omitempty"`
	Ephemeral     *bool  `json:"ephemeral,omitempty"`
	// Timeout is the number of minutes the service waits for the session URL.
	Timeout *int `json:"timeout,omitempty" validate:"omitempty,gt=0"`
}

// SessionListRequest lists the sessions of a user.
type SessionListRequest struct {
	ServiceRequest
	AppID string `json:"appId" validate:"required"`
	User  string `json:"user" validate:"required"`
}

// SessionStartRequest starts a session for a user.
type SessionStartRequest struct {
	ServiceRequest
	AppID         string `json:"appId" validate:"required"`
	User          string `json:"user" validate:"required"`
	AppDefinition string `json:"appDefinition" validate:"required"`
	WorkspaceName string `json:"workspaceName,omitempty"`
	Timeout       *int   `json:"timeout,omitempty" validate:"omitempty,gt=0"`
}

// SessionStopRequest stops a running session.
type SessionStopRequest struct {
	ServiceRequest
	AppID       string `json:"appId" validate:"required"`
	User        string `json:"user" validate:"required"`
	SessionName string `json:"sessionName" validate:"required"`
}

// SessionActivityRequest reports activity on a session to keep it alive.
type SessionActivityRequest struct {
	ServiceRequest
	AppID       string `json:"appId" validate:"required"`
	SessionName string `json:"sessionName" validate:"required"`
}

// WorkspaceListRequest lists the workspaces of a user.
type WorkspaceListRequest struct {
	ServiceRequest
	AppID string `json:"appId" validate:"required"`
	User  string `json:"user" validate:"required"`
}

// WorkspaceCreationRequest creates a persistent workspace.
type WorkspaceCreationRequest struct {
	ServiceRequest
	AppID         string `json:"appId" validate:"required"`
	User          string `json:"user" validate:"required"`
	AppDefinition string `json:"appDefinition,omitempty"`
	Label         string `json:"label,omitempty"`
}

// WorkspaceDeletionRequest deletes a workspace.
type WorkspaceDeletionRequest struct {
	ServiceRequest
	AppID         string `json:"appId" validate:"required"`
	User          string `json:"user" validate:"required"`
	WorkspaceName string `json:"workspaceName" validate:"required"`
}

// SessionSpec describes a session as reported by the service.
type SessionSpec struct {
	Name          string            `json:"name"`
	AppDefinition string            `json:"appDefinition"`
	User          string            `json:"user"`
	Workspace     string            `json:"workspace,omitempty"`
	URL           string            `json:"url,omitempty"`
	Error         string            `json:"error,omitempty"`
	LastActivity  int64             `json:"lastActivity,omitempty"`
	Options       map[string]string `json:"options,omitempty"`
	EnvVars       map[string]string `json:"envVars,omitempty"`
}

// UserWorkspace describes a workspace as reported by the service.
type UserWorkspace struct {
	Name          string `json:"name"`
	Label         string `json:"label,omitempty"`
	AppDefinition string `json:"appDefinition,omitempty"`
	User          string `json:"user"`
	Active        bool   `json:"active"`
}

// SessionLaunchResponse is returned by launch and session start.
type SessionLaunchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	URL     string `json:"url,omitempty"`
}

// WorkspaceCreationResponse is returned by workspace creation.
type WorkspaceCreationResponse struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Workspace *UserWorkspace `json:"workspace,omitempty"`
}

// KindOf returns the kind tag of a request type, or an empty string for unknown types.
func KindOf(req Request) string {
	switch req.(type) {
	case PingRequest, *PingRequest:
		return PingRequestKind
	case LaunchRequest, *LaunchRequest:
		return LaunchRequestKind
	case SessionListRequest, *SessionListRequest:
		return SessionListRequestKind
	case SessionStartRequest, *SessionStartRequest:
		return SessionStartRequestKind
	case SessionStopRequest, *SessionStopRequest:
		return SessionStopRequestKind
	case SessionActivityRequest, *SessionActivityRequest:
		return SessionActivityRequestKind
	case WorkspaceListRequest, *WorkspaceListRequest:
		return WorkspaceListRequestKind
	case WorkspaceCreationRequest, *WorkspaceCreationRequest:
		return WorkspaceCreationRequestKind
	case WorkspaceDeletionRequest, *WorkspaceDeletionRequest:
		return WorkspaceDeletionRequestKind
	default:
		return ""
	}
}
