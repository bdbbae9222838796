package providers

import (
	"errors"
	"net/http"
	"strings"

	"calmd/internal/structures"
)

var ErrNoIdentity = errors.New("request carries no user identity")

// IdentityProviderInterface resolves the authenticated user of a request.
// Authentication itself happens upstream.
type IdentityProviderInterface interface {
	UserID(r *http.Request) (string, error)
}

type HeaderIdentityProvider struct {
	header string
}

func NewIdentityProvider(conf *structures.Config) IdentityProviderInterface {
	header := conf.Identity.Header
	if header == "" {
		header = DefaultIdentityHeader
	}
	return &HeaderIdentityProvider{header: header}
}

func (p *HeaderIdentityProvider) UserID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(p.header))
	if id == "" {
		return "", ErrNoIdentity
	}
	return id, nil
}
