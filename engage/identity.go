package engage

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

const (
	fingerprintKey = "cm:rid"
	guestNameKey   = "cm:guestName"
)

// Identity is the device-scoped, best-effort identity: a random reporter
// fingerprint and an optional self-declared display name.
type Identity struct {
	mu sync.Mutex
	kv app.KV
}

// NewIdentity creates an identity over kv.
func NewIdentity(kv app.KV) *Identity {
	return &Identity{kv: kv}
}

// Fingerprint returns the device fingerprint, creating it on first use.
func (i *Identity) Fingerprint() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fp, ok, err := i.kv.Get(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("reading fingerprint: %w", err)
	}
	if ok && fp != "" {
		return fp, nil
	}
	fp = uuid.NewString()
	if err := i.kv.Set(fingerprintKey, fp); err != nil {
		return "", fmt.Errorf("storing fingerprint: %w", err)
	}
	return fp, nil
}

// DisplayName returns the declared name, or "" when anonymous.
func (i *Identity) DisplayName() string {
	name, _, err := i.kv.Get(guestNameKey)
	if err != nil {
		return ""
	}
	return name
}

// SetDisplayName validates and stores name. An empty name clears it.
func (i *Identity) SetDisplayName(name string) error {
	name, err := domain.NormalizeDisplayName(name)
	if err != nil {
		return err
	}
	if name == "" {
		return i.kv.Delete(guestNameKey)
	}
	return i.kv.Set(guestNameKey, name)
}
