package theiacloud

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var userPattern = regexp.MustCompile(`^[^@\s]+@theia\.cloud$`)

func TestCreateUser(t *testing.T) {
	a := CreateUser()
	b := CreateUser()
	assert.Regexp(t, userPattern, a)
	assert.Regexp(t, userPattern, b)
	assert.NotEqual(t, a, b)
}

func TestEphemeralLaunch(t *testing.T) {
	r := EphemeralLaunch("https://svc/", "app", "theia-def", WithWorkspaceName("ignored"), WithLabel("ignored"))
	require.NotNil(t, r.Ephemeral)
	assert.True(t, *r.Ephemeral)
	assert.True(t, r.IsEphemeral())
	assert.Empty(t, r.WorkspaceName)
	assert.Empty(t, r.Label)
	assert.Equal(t, "theia-def", r.AppDefinition)
	assert.Regexp(t, userPattern, r.User)
	assert.Nil(t, r.Timeout)

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(body, "ephemeral").Bool())
	assert.False(t, gjson.GetBytes(body, "workspaceName").Exists())
	assert.False(t, gjson.GetBytes(body, "serviceUrl").Exists())
	assert.False(t, gjson.GetBytes(body, "ServiceURL").Exists())
}

func TestCreateWorkspaceLaunch(t *testing.T) {
	r := CreateWorkspaceLaunch("https://svc/", "app", "theia-def")
	require.NotNil(t, r.Ephemeral)
	assert.False(t, *r.Ephemeral)
	assert.Empty(t, r.WorkspaceName)

	r = CreateWorkspaceLaunch("https://svc/", "app", "theia-def",
		WithWorkspaceName("ws"), WithLabel("My Workspace"), WithUser("jane@example.com"), WithLaunchTimeout(3))
	require.NotNil(t, r.Ephemeral)
	assert.False(t, *r.Ephemeral)
	assert.Equal(t, "ws", r.WorkspaceName)
	assert.Equal(t, "My Workspace", r.Label)
	assert.Equal(t, "jane@example.com", r.User)
	require.NotNil(t, r.Timeout)
	assert.Equal(t, 3, *r.Timeout)

	body, err := json.Marshal(r)
	require.NoError(t, err)
	ephemeral := gjson.GetBytes(body, "ephemeral")
	assert.True(t, ephemeral.Exists())
	assert.False(t, ephemeral.Bool())
}

func TestExistingWorkspaceLaunch(t *testing.T) {
	r := ExistingWorkspaceLaunch("https://svc/", "app", "ws-1")
	assert.Nil(t, r.Ephemeral)
	assert.False(t, r.IsEphemeral())
	assert.Equal(t, "ws-1", r.WorkspaceName)
	assert.Empty(t, r.AppDefinition)

	r = ExistingWorkspaceLaunch("https://svc/", "app", "ws-1", WithAppDefinition("theia-def"))
	assert.Nil(t, r.Ephemeral)
	assert.Equal(t, "theia-def", r.AppDefinition)

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(body, "ephemeral").Exists())
	assert.Equal(t, "ws-1", gjson.GetBytes(body, "workspaceName").String())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		req  Request
		kind string
	}{
		{PingRequest{}, "pingRequest"},
		{&LaunchRequest{}, "launchRequest"},
		{SessionListRequest{}, "sessionListRequest"},
		{SessionStartRequest{}, "sessionStartRequest"},
		{SessionStopRequest{}, "sessionStopRequest"},
		{SessionActivityRequest{}, "sessionActivityRequest"},
		{WorkspaceListRequest{}, "workspaceListRequest"},
		{WorkspaceCreationRequest{}, "workspaceCreationRequest"},
		{WorkspaceDeletionRequest{}, "workspaceDeletionRequest"},
		{ServiceRequest{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.req))
	}
}

func TestTagged(t *testing.T) {
	req := SessionStopRequest{
		ServiceRequest: ServiceRequest{ServiceURL: "https://svc/x"},
		AppID:          "app",
		User:           "jane",
		SessionName:    "s1",
	}
	body, err := tagged(SessionStopRequestKind, req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"sessionStopRequest","appId":"app","user":"jane","sessionName":"s1"}`, string(body))

	req.Kind = "custom"
	body, err = tagged(SessionStopRequestKind, req)
	require.NoError(t, err)
	assert.Equal(t, "custom", gjson.GetBytes(body, "kind").String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(NewPingRequest("https://svc", "app")))

	err := Validate(NewPingRequest("https://svc", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "appId is required")
	assert.Contains(t, err.Error(), "pingRequest")

	err = Validate(WorkspaceDeletionRequest{AppID: "app", User: "jane"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ServiceURL is required")
	assert.Contains(t, err.Error(), "workspaceName is required")

	zero := 0
	err = Validate(SessionStartRequest{
		ServiceRequest: ServiceRequest{ServiceURL: "https://svc"},
		AppID:          "app",
		User:           "jane",
		AppDefinition:  "def",
		Timeout:        &zero,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout failed gt validation")
}
