// Package remote turns the user-supplied repository location into the URL
// handed to git, with credentials embedded as URL userinfo.
//
// The credentialed form is only ever returned by Location.String. Anything
// that ends up in a log must use Location.Redacted.
package remote

import (
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/kitplummer/goa/internal/errors"
)

// Credentials are optional and write-only: they are used to build the URL
// and are not retained by Location.
type Credentials struct {
	Username string
	Token    string
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Token == ""
}

// Location is a parsed, credential-bearing repository URL.
type Location struct {
	u *url.URL
}

// Resolve parses raw as an absolute URL and embeds creds as userinfo. It
// fails with ErrInvalidLocation if raw has no scheme, has no host for a
// network scheme, or is rejected by the git transport layer. Resolve never
// performs I/O.
func Resolve(raw string, creds Credentials) (*Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.Wrap(errors.ErrInvalidLocation, "empty location")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Join(errors.ErrInvalidLocation, err)
	}
	if u.Scheme == "" || u.Opaque != "" {
		return nil, errors.Wrapf(errors.ErrInvalidLocation, "%q is not an absolute URL", Redact(raw))
	}

	isFile := strings.EqualFold(u.Scheme, "file")
	if !isFile && u.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidLocation, "%q has no host", Redact(raw))
	}

	if !creds.IsZero() {
		if isFile || u.Host == "" {
			return nil, errors.Wrap(errors.ErrInvalidLocation, "credentials require a URL with a host")
		}
		u.User = userinfo(u.User, creds)
	}

	if _, err := transport.NewEndpoint(u.String()); err != nil {
		return nil, errors.Join(errors.ErrInvalidLocation, err)
	}

	return &Location{u: u}, nil
}

// userinfo merges creds over whatever the URL already carried. A username
// alone keeps an existing password; a token alone keeps an existing username.
func userinfo(existing *url.Userinfo, creds Credentials) *url.Userinfo {
	user := creds.Username
	if user == "" && existing != nil {
		user = existing.Username()
	}

	token := creds.Token
	if token == "" && existing != nil {
		token, _ = existing.Password()
	}

	if token == "" {
		return url.User(user)
	}
	return url.UserPassword(user, token)
}

// String returns the full URL including credentials. Pass it to git; do
// not log it.
func (l *Location) String() string {
	return l.u.String()
}

// Redacted returns the URL with any password replaced by "xxxxx".
func (l *Location) Redacted() string {
	return l.u.Redacted()
}

// Scheme returns the lower-cased URL scheme.
func (l *Location) Scheme() string {
	return strings.ToLower(l.u.Scheme)
}

// Username returns the embedded username, if any.
func (l *Location) Username() string {
	if l.u.User == nil {
		return ""
	}
	return l.u.User.Username()
}

// HasToken reports whether a token is embedded.
func (l *Location) HasToken() bool {
	if l.u.User == nil {
		return false
	}
	_, ok := l.u.User.Password()
	return ok
}

// Endpoint returns the git transport endpoint for the location.
func (l *Location) Endpoint() (*transport.Endpoint, error) {
	ep, err := transport.NewEndpoint(l.u.String())
	if err != nil {
		return nil, errors.Join(errors.ErrInvalidLocation, err)
	}
	return ep, nil
}

// Redact strips the password from raw if it parses as a URL, and returns
// raw unchanged otherwise.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
