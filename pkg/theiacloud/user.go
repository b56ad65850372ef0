package theiacloud

import (
	"github.com/theiacloud/theiacloud-go/internal/common/uuid"
)

// UserDomain is appended to generated user identities.
const UserDomain = "theia.cloud"

// CreateUser returns a fresh pseudo identity of the form <random-id>@theia.cloud.
// It is used wherever a request is built without an explicit user.
func CreateUser() string {
	return uuid.NewString() + "@" + UserDomain
}
