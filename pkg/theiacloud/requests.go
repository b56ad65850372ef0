package theiacloud

// NewPingRequest builds a ping for appID.
func NewPingRequest(serviceURL, appID string) PingRequest {
	return PingRequest{
		ServiceRequest: ServiceRequest{ServiceURL: serviceURL},
		AppID:          appID,
	}
}

// LaunchOption customizes a LaunchRequest built by one of the launch constructors.
type LaunchOption func(*LaunchRequest)

// WithUser sets the user. Without it a generated identity is used.
func WithUser(user string) LaunchOption {
	return func(r *LaunchRequest) {
		r.User = user
	}
}

// WithLaunchTimeout sets the number of minutes the service waits for the session URL.
func WithLaunchTimeout(minutes int) LaunchOption {
	return func(r *LaunchRequest) {
		r.Timeout = &minutes
	}
}

// WithAppDefinition sets the app definition. Only needed for existing workspace launches.
func WithAppDefinition(appDefinition string) LaunchOption {
	return func(r *LaunchRequest) {
		r.AppDefinition = appDefinition
	}
}

// WithWorkspaceName names the workspace created by CreateWorkspaceLaunch.
func WithWorkspaceName(name string) LaunchOption {
	return func(r *LaunchRequest) {
		r.WorkspaceName = name
	}
}

// WithLabel sets the display label of the workspace created by CreateWorkspaceLaunch.
func WithLabel(label string) LaunchOption {
	return func(r *LaunchRequest) {
		r.Label = label
	}
}

func newLaunchRequest(serviceURL, appID string, opts []LaunchOption) LaunchRequest {
	r := LaunchRequest{
		ServiceRequest: ServiceRequest{ServiceURL: serviceURL},
		AppID:          appID,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.User == "" {
		r.User = CreateUser()
	}
	return r
}

// EphemeralLaunch builds a launch for a session without a persisted workspace.
// Workspace options are ignored.
func EphemeralLaunch(serviceURL, appID, appDefinition string, opts ...LaunchOption) LaunchRequest {
	r := newLaunchRequest(serviceURL, appID, opts)
	r.AppDefinition = appDefinition
	r.WorkspaceName = ""
	r.Label = ""
	ephemeral := true
	r.Ephemeral = &ephemeral
	return r
}

// CreateWorkspaceLaunch builds a launch that creates a new workspace, optionally
// named with WithWorkspaceName and labelled with WithLabel.
func CreateWorkspaceLaunch(serviceURL, appID, appDefinition string, opts ...LaunchOption) LaunchRequest {
	r := newLaunchRequest(serviceURL, appID, opts)
	r.AppDefinition = appDefinition
	ephemeral := false
	r.Ephemeral = &ephemeral
	return r
}

// ExistingWorkspaceLaunch builds a launch of an existing workspace. The ephemeral
// flag is left unset.
func ExistingWorkspaceLaunch(serviceURL, appID, workspaceName string, opts ...LaunchOption) LaunchRequest {
	r := newLaunchRequest(serviceURL, appID, opts)
	r.WorkspaceName = workspaceName
	r.Ephemeral = nil
	return r
}

// IsEphemeral reports whether the request asks for an ephemeral session.
func (r LaunchRequest) IsEphemeral() bool {
	return r.Ephemeral != nil && *r.Ephemeral
}
