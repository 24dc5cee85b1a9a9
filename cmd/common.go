// Package cmd is the thin glue between the CLI surface and the core:
// it wires key input sources, opens the store, prints results and maps the
// error taxonomy to exit codes.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/keyfold/internal/config"
	"github.com/illarion/keyfold/internal/gate"
	"github.com/illarion/keyfold/internal/keyring"
	"github.com/illarion/keyfold/internal/logger"
	"github.com/illarion/keyfold/internal/policy"
	"github.com/illarion/keyfold/internal/secure"
	"github.com/illarion/keyfold/internal/termio"
	"github.com/illarion/keyfold/internal/vault"
)

// Exit codes. Lookup misses get their own status so callers can branch on
// "absent" vs "failed".
const (
	ExitOK       = 0 // success, including a user-cancelled overwrite
	ExitError    = 1 // policy violation, key rejected, collision, I/O
	ExitNotFound = 2 // lookup miss
)

// App carries the per-invocation context shared by all commands.
type App struct {
	Cfg      *config.Config
	Log      *logger.Logger
	Remember bool // cache the master key in the OS keyring after unlock
}

// HandleError reports err and exits with ExitError.
func HandleError(err error) {
	var v *policy.Violation
	switch {
	case errors.As(err, &v):
		fmt.Fprintf(os.Stderr, "Error: %s\n", v)
	case errors.Is(err, gate.ErrKeyRejected):
		fmt.Fprintf(os.Stderr, "Error: master key rejected\n")
	case errors.Is(err, vault.ErrSecretTaken):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Reverse lookup requires every secret to belong to a single resource\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(ExitError)
}

// keySource feeds the gate from, in order: the KEYFOLD_KEY environment
// variable, the OS keyring cache, the interactive terminal. It keeps a copy
// of whatever key it handed out so -remember can cache it after a
// successful unlock.
type keySource struct {
	app       *App
	used      []byte
	fromCache bool // key came from the OS keyring, not the user
}

func (k *keySource) NewKey() ([]byte, error) {
	if k.app.Cfg.MasterKey != "" {
		return k.record([]byte(k.app.Cfg.MasterKey)), nil
	}
	key, err := termio.ReadSecretConfirm("Define master key: ")
	if err != nil {
		return nil, err
	}
	return k.record(key), nil
}

func (k *keySource) Key() ([]byte, error) {
	if k.app.Cfg.MasterKey != "" {
		return k.record([]byte(k.app.Cfg.MasterKey)), nil
	}
	if cached, err := keyring.GetKey(k.app.Cfg.Root); err == nil {
		k.app.Log.Debug().Msg("using master key cached in OS keyring")
		k.fromCache = true
		return k.record([]byte(cached)), nil
	}
	key, err := termio.ReadSecret("Master key: ")
	if err != nil {
		return nil, err
	}
	return k.record(key), nil
}

// record keeps a private copy of the key; the gate clears the returned one.
func (k *keySource) record(key []byte) []byte {
	k.used = make([]byte, len(key))
	copy(k.used, key)
	return key
}

func (k *keySource) clear() {
	secure.ClearBytes(k.used)
	k.used = nil
}

// unlock takes the invocation through the key gate and opens the store.
// Any failure is fatal to the whole invocation.
func unlock(app *App) *vault.Store {
	src := &keySource{app: app}
	defer src.clear()

	g := gate.New(app.Cfg.Root, app.Log)
	sess, err := g.EnsureUnlocked(src)
	if err != nil {
		if errors.Is(err, gate.ErrKeyRejected) && src.fromCache {
			fmt.Fprintln(os.Stderr, "The rejected key came from the OS keyring cache; run 'keyfold -forget' to drop it")
		}
		HandleError(err)
	}

	if app.Remember {
		if err := keyring.SaveKey(app.Cfg.Root, string(src.used)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot cache key in OS keyring: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "master key cached in OS keyring")
		}
	}

	store, err := vault.Open(sess, app.Log)
	if err != nil {
		HandleError(err)
	}
	return store
}
