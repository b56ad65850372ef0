package theiacloud

import (
	"net/http"

	"github.com/theiacloud/theiacloud-go/internal/common/apperrors"
)

var (
	// ErrInvalidRequest is returned when a request misses required fields.
	ErrInvalidRequest = apperrors.New("invalid request").SetStatusCode(http.StatusBadRequest)
	// ErrLaunchFailed is returned when the service reports an unsuccessful launch.
	ErrLaunchFailed = apperrors.New("could not launch session")
	// ErrUnexpectedResponse is returned when a response body cannot be decoded.
	ErrUnexpectedResponse = apperrors.New("unexpected response from service")
)
