package gates

import (
	"context"
	"strings"
	"sync"
)

// IdentityProvider is the auth backend the resolver sits on top of.
// CurrentUser is a local lookup; SignInAnonymously is a one-time network
// round trip that mints a fresh principal.
type IdentityProvider interface {
	CurrentUser() (id string, ok bool)
	SignInAnonymously(ctx context.Context) (id string, err error)
}

// Resolver produces a stable identity for the acting principal, bootstrapping
// an anonymous one when nobody is signed in. The bootstrap happens at most
// once per resolver; later calls return the cached id for the session.
type Resolver struct {
	provider IdentityProvider

	mu     sync.Mutex
	cached string
}

func NewResolver(provider IdentityProvider) *Resolver {
	return &Resolver{provider: provider}
}

func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if id, ok := r.provider.CurrentUser(); ok && strings.TrimSpace(id) != "" {
		return id, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached != "" {
		return r.cached, nil
	}

	id, err := r.provider.SignInAnonymously(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		// Provider contract violation: the call succeeded but minted nothing.
		return "", ErrNoIdentity
	}
	r.cached = id
	return id, nil
}
