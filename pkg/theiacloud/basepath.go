package theiacloud

import (
	"errors"
	"net/url"
	"strings"
)

// BasePath returns the API root of serviceURL by removing its path component.
// URLs without a path, or with only the root path, are returned unchanged, as are
// URLs whose string does not end with the path (for example when a query follows it).
// A malformed or relative URL fails with a *url.Error.
func BasePath(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &url.Error{Op: "parse", URL: serviceURL, Err: errors.New("not an absolute URL")}
	}
	p := u.EscapedPath()
	if p == "" || p == "/" || !strings.HasSuffix(serviceURL, p) {
		return serviceURL, nil
	}
	return strings.TrimSuffix(serviceURL, p), nil
}
