package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Validator checks that an external profile reference points at something
// real. It is consulted only during first-time registration.
type Validator interface {
	VerifyProfile(ctx context.Context, ref string) (bool, error)
}

// GitHubValidator verifies a profile reference against the public GitHub
// users API. No token is needed for public profile lookups.
type GitHubValidator struct {
	baseURL string
	client  *http.Client
}

var _ Validator = (*GitHubValidator)(nil)

// NewGitHubValidator creates a validator against the given API base URL
// (normally https://api.github.com; tests point it at a local server).
func NewGitHubValidator(baseURL string) *GitHubValidator {
	return &GitHubValidator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyProfile returns true when the referenced GitHub profile exists.
// A 404 means "no such profile" (false, no error); any other failure is an
// error so registration does not silently accept an unverifiable reference.
func (v *GitHubValidator) VerifyProfile(ctx context.Context, ref string) (bool, error) {
	login := NormalizeRef(ref)
	if login == "" {
		return false, nil
	}

	endpoint := fmt.Sprintf("%s/users/%s", v.baseURL, url.PathEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build GitHub request: %v", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := v.client.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("login", login).Warn("GitHub profile lookup failed")
		return false, fmt.Errorf("failed to call GitHub API: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}
}

// NormalizeRef reduces a profile reference to a bare GitHub login. Users paste
// either a plain username or a full profile URL.
func NormalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "https://")
	ref = strings.TrimPrefix(ref, "http://")
	ref = strings.TrimPrefix(ref, "github.com/")
	ref = strings.Trim(ref, "/")

	// Anything after the login segment is dropped.
	if i := strings.Index(ref, "/"); i >= 0 {
		ref = ref[:i]
	}
	return ref
}
