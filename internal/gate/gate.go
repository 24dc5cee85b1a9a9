// Package gate owns the master-key lifecycle and the filesystem bootstrap
// of the configuration root.
//
// The gate has exactly two states, determined by whether the key file
// exists. Uninitialized: the first invocation defines the key, which must
// satisfy the secret-complexity policy before anything is persisted.
// Initialized: the supplied key must match the stored one byte for byte or
// the invocation is rejected; there is no retry within a single run.
//
// An unlocked gate hands out a *Session, and the vault store operates only
// through a Session. That keeps the key check an explicit object handed
// down the call chain instead of ambient global state.
package gate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/illarion/keyfold/internal/logger"
	"github.com/illarion/keyfold/internal/policy"
	"github.com/illarion/keyfold/internal/secure"
)

const (
	KeyFileName   = "key"   // raw master key, newline-terminated
	VaultFileName = "vault" // ordered resource/secret entries

	DirPermSecure  = 0700 // Directory: owner rwx only
	FilePermSecure = 0600 // File: owner rw only
)

var (
	ErrKeyRejected = errors.New("master key rejected")
)

// InputSource supplies the master key. Implementations include the
// interactive terminal, the KEYFOLD_KEY environment variable and the OS
// keyring cache; tests use scripted doubles.
type InputSource interface {
	// NewKey is called on the very first invocation to define the key.
	NewKey() ([]byte, error)
	// Key is called on every later invocation to supply the key.
	Key() ([]byte, error)
}

// Session represents an unlocked vault. It is only obtainable through
// EnsureUnlocked, so holding one proves the master-key check passed.
type Session struct {
	root string
}

// Root returns the configuration root directory.
func (s *Session) Root() string {
	return s.root
}

// VaultPath returns the path of the vault file inside the root.
func (s *Session) VaultPath() string {
	return filepath.Join(s.root, VaultFileName)
}

// Gate manages the master key stored under a configuration root.
type Gate struct {
	root string
	log  *logger.Logger
}

// New creates a Gate for the given configuration root.
func New(root string, log *logger.Logger) *Gate {
	return &Gate{root: root, log: log}
}

// Initialized reports whether a master key has been defined.
func (g *Gate) Initialized() bool {
	_, err := os.Stat(filepath.Join(g.root, KeyFileName))
	return err == nil
}

// EnsureUnlocked takes the gate through bootstrap-or-verify and returns a
// Session on success.
//
// Uninitialized: prompts for a new key via src, validates it against the
// policy (a violation aborts with nothing persisted) and stores it with
// owner-only permissions. Initialized: prompts for the key and compares it
// byte for byte against the stored value; a mismatch returns ErrKeyRejected.
// Either way the configuration root and an empty vault file are guaranteed
// to exist before the Session is returned.
func (g *Gate) EnsureUnlocked(src InputSource) (*Session, error) {
	if err := os.MkdirAll(g.root, DirPermSecure); err != nil {
		return nil, fmt.Errorf("failed to create configuration root: %w", err)
	}

	keyPath := filepath.Join(g.root, KeyFileName)
	stored, err := os.ReadFile(keyPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		g.log.Debug().Str("root", g.root).Msg("no master key yet, bootstrapping")
		if err := g.bootstrap(keyPath, src); err != nil {
			return nil, err
		}

	case err != nil:
		return nil, fmt.Errorf("failed to read key file: %w", err)

	default:
		defer secure.ClearBytes(stored)
		if err := g.verify(keyPath, stored, src); err != nil {
			return nil, err
		}
	}

	if err := g.ensureVaultFile(); err != nil {
		return nil, err
	}

	g.log.Debug().Msg("vault unlocked")
	return &Session{root: g.root}, nil
}

// bootstrap defines the master key on the first invocation ever made.
// The candidate goes through the same complexity policy as any stored
// secret; nothing is persisted on failure.
func (g *Gate) bootstrap(keyPath string, src InputSource) error {
	key, err := src.NewKey()
	if err != nil {
		return fmt.Errorf("failed to read new master key: %w", err)
	}
	defer secure.ClearBytes(key)

	if err := policy.Validate(string(key), "key"); err != nil {
		return err
	}
	if bytes.ContainsAny(key, "\r\n") {
		return fmt.Errorf("key must not contain line breaks")
	}

	if err := writeKey(keyPath, key); err != nil {
		return err
	}

	g.log.Debug().Msg("master key defined")
	return nil
}

// verify compares the supplied key against the stored one.
func (g *Gate) verify(keyPath string, stored []byte, src InputSource) error {
	supplied, err := src.Key()
	if err != nil {
		return fmt.Errorf("failed to read master key: %w", err)
	}
	defer secure.ClearBytes(supplied)

	storedKey := bytes.TrimSuffix(stored, []byte("\n"))
	if !secure.ConstantTimeCompare(storedKey, supplied) {
		return ErrKeyRejected
	}

	// Re-persist the matched key verbatim: same bytes, same mode. Kept as
	// an intentional idempotent touch of the key file.
	if err := writeKey(keyPath, supplied); err != nil {
		return err
	}

	g.log.Debug().Msg("master key verified")
	return nil
}

// ensureVaultFile creates an empty vault file if absent.
func (g *Gate) ensureVaultFile() error {
	path := filepath.Join(g.root, VaultFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, FilePermSecure)
	if err != nil {
		return fmt.Errorf("failed to create vault file: %w", err)
	}
	return f.Close()
}

// writeKey stores the key as raw text, newline-terminated, owner-only.
func writeKey(path string, key []byte) error {
	buf := make([]byte, 0, len(key)+1)
	buf = append(buf, key...)
	buf = append(buf, '\n')
	defer secure.ClearBytes(buf)

	if err := os.WriteFile(path, buf, FilePermSecure); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}
