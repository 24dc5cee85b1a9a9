package gate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/illarion/keyfold/internal/logger"
	"github.com/illarion/keyfold/internal/policy"
)

// scriptedSource feeds fixed keys to the gate instead of a terminal.
type scriptedSource struct {
	newKey string
	key    string
}

func (s scriptedSource) NewKey() ([]byte, error) { return []byte(s.newKey), nil }
func (s scriptedSource) Key() ([]byte, error)    { return []byte(s.key), nil }

const goodKey = "Abcdef1!gh23"

func TestBootstrapCreatesKeyAndVault(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fold")
	g := New(root, logger.Nop())

	sess, err := g.EnsureUnlocked(scriptedSource{newKey: goodKey})
	if err != nil {
		t.Fatalf("EnsureUnlocked failed: %v", err)
	}
	if sess.Root() != root {
		t.Errorf("Session root = %q, want %q", sess.Root(), root)
	}

	keyData, err := os.ReadFile(filepath.Join(root, KeyFileName))
	if err != nil {
		t.Fatalf("key file should exist: %v", err)
	}
	if string(keyData) != goodKey+"\n" {
		t.Errorf("key file = %q, want raw key newline-terminated", keyData)
	}

	if _, err := os.Stat(sess.VaultPath()); err != nil {
		t.Errorf("vault file should exist: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, _ := os.Stat(root)
		if info.Mode().Perm() != DirPermSecure {
			t.Errorf("root mode = %v, want %o", info.Mode().Perm(), DirPermSecure)
		}
		info, _ = os.Stat(filepath.Join(root, KeyFileName))
		if info.Mode().Perm() != FilePermSecure {
			t.Errorf("key file mode = %v, want %o", info.Mode().Perm(), FilePermSecure)
		}
	}
}

func TestBootstrapRejectsWeakKey(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fold")
	g := New(root, logger.Nop())

	_, err := g.EnsureUnlocked(scriptedSource{newKey: "weak"})
	var v *policy.Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected policy violation, got %v", err)
	}
	if v.Label != "key" {
		t.Errorf("Label = %q, want key", v.Label)
	}

	// Nothing may be persisted after a rejected bootstrap
	if _, err := os.Stat(filepath.Join(root, KeyFileName)); !os.IsNotExist(err) {
		t.Error("key file should not exist after policy violation")
	}
	if _, err := os.Stat(filepath.Join(root, VaultFileName)); !os.IsNotExist(err) {
		t.Error("vault file should not exist after policy violation")
	}
}

// A key passing the complexity policy can still embed a newline, which the
// newline-terminated key file cannot represent.
func TestBootstrapRejectsLineBreakInKey(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fold")
	g := New(root, logger.Nop())

	_, err := g.EnsureUnlocked(scriptedSource{newKey: "Abcdef1!gh23\nx"})
	if err == nil {
		t.Fatal("key containing a line break should be rejected")
	}
	if _, statErr := os.Stat(filepath.Join(root, KeyFileName)); !os.IsNotExist(statErr) {
		t.Error("key file should not exist after rejected bootstrap")
	}
}

func TestUnlockWithCorrectKey(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fold")
	g := New(root, logger.Nop())

	if _, err := g.EnsureUnlocked(scriptedSource{newKey: goodKey}); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	// Repeated correct entries always unlock
	for i := 0; i < 3; i++ {
		if _, err := g.EnsureUnlocked(scriptedSource{key: goodKey}); err != nil {
			t.Fatalf("unlock #%d failed: %v", i+1, err)
		}
	}

	// The key file is untouched in content and mode
	keyData, err := os.ReadFile(filepath.Join(root, KeyFileName))
	if err != nil {
		t.Fatalf("failed to read key file: %v", err)
	}
	if string(keyData) != goodKey+"\n" {
		t.Errorf("key file = %q after repeated unlocks", keyData)
	}
}

func TestUnlockRejectsWrongKey(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fold")
	g := New(root, logger.Nop())

	if _, err := g.EnsureUnlocked(scriptedSource{newKey: goodKey}); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	_, err := g.EnsureUnlocked(scriptedSource{key: "Wrong-key9#abc"})
	if !errors.Is(err, ErrKeyRejected) {
		t.Fatalf("expected ErrKeyRejected, got %v", err)
	}

	keyData, _ := os.ReadFile(filepath.Join(root, KeyFileName))
	if string(keyData) != goodKey+"\n" {
		t.Errorf("key file mutated by rejected unlock: %q", keyData)
	}
}

func TestInitialized(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fold")
	g := New(root, logger.Nop())

	if g.Initialized() {
		t.Error("fresh root should not be initialized")
	}
	if _, err := g.EnsureUnlocked(scriptedSource{newKey: goodKey}); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if !g.Initialized() {
		t.Error("root should be initialized after bootstrap")
	}
}
