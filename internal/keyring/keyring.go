// Package keyring caches the master key in the OS keychain, keyed by the
// configuration root so multiple vaults never share an entry. Caching is
// opt-in (-remember) and is just another input source for the key gate.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "keyfold"

// ErrNotCached is returned by GetKey when no master key has been remembered
// for the given configuration root.
var ErrNotCached = errors.New("no master key cached")

// SaveKey stores the master key for a configuration root in the OS keyring.
func SaveKey(root, key string) error {
	if err := keyring.Set(serviceName, root, key); err != nil {
		return fmt.Errorf("failed to write OS keyring: %w", err)
	}
	return nil
}

// GetKey retrieves the cached master key for a configuration root.
// A root that was never remembered (or was forgotten) yields ErrNotCached;
// any other error means the keyring itself is unusable.
func GetKey(root string) (string, error) {
	key, err := keyring.Get(serviceName, root)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotCached
	}
	if err != nil {
		return "", fmt.Errorf("failed to read OS keyring: %w", err)
	}
	return key, nil
}

// DeleteKey drops the cached master key for a configuration root.
// Deleting a key that was never cached yields ErrNotCached.
func DeleteKey(root string) error {
	err := keyring.Delete(serviceName, root)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotCached
	}
	if err != nil {
		return fmt.Errorf("failed to update OS keyring: %w", err)
	}
	return nil
}
