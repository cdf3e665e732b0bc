package storage

import (
	"github.com/go-faster/errors"
	"github.com/zalando/go-keyring"
)

// keyringService is the service name slots are registered under in the OS
// keychain. One keyring secret per slot key.
const keyringService = "velora-storefront"

// Keyring is a Storage backed by the operating system keychain. It keeps
// tokens out of plain files on platforms that have a secret service.
type Keyring struct {
	service string
}

// NewKeyring probes the OS keychain and returns a Keyring Storage when it is
// usable. On headless machines without a secret service the probe fails and
// the caller should fall back to File or Memory.
func NewKeyring() (*Keyring, error) {
	k := &Keyring{service: keyringService}

	// Probe: a round-trip on a scratch key tells us whether a secret
	// service is actually reachable.
	const probe = "velora_probe"
	if err := keyring.Set(k.service, probe, "ok"); err != nil {
		return nil, errors.Wrap(err, "keyring unavailable")
	}
	_ = keyring.Delete(k.service, probe)
	return k, nil
}

func (k *Keyring) Get(key string) (string, bool) {
	v, err := keyring.Get(k.service, key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return errors.Wrap(err, "keyring set")
	}
	return nil
}

func (k *Keyring) Remove(key string) error {
	err := keyring.Delete(k.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return errors.Wrap(err, "keyring delete")
	}
	return nil
}
