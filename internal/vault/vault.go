// Package vault implements the entry store: persistence, two-way lookup,
// the uniqueness rules and the overwrite protocol.
//
// Persistent form is an ordered plaintext file, one entry per line:
//
//	<resource> => <secret>
//
// with " => " as the field delimiter. Entry order is append order; it is
// preserved for listing (and across overwrites) but carries no meaning for
// lookup. The file is the source of truth; the in-memory maps are an index
// rebuilt on load.
//
// Two invariants hold after any sequence of non-cancelled upserts:
//   - a resource appears at most once (later writes replace, after explicit
//     confirmation);
//   - a secret belongs to at most one resource, so reverse lookup is
//     unambiguous.
//
// There is no cross-process locking: concurrent invocations may race on the
// vault file. The store is plaintext by design; confidentiality relies on
// the 0600/0700 filesystem permissions and the master-key gate.
package vault

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/illarion/keyfold/internal/gate"
	"github.com/illarion/keyfold/internal/logger"
	"github.com/illarion/keyfold/internal/policy"
)

// Delimiter separates the resource and secret fields on a vault line.
const Delimiter = " => "

var ErrSecretTaken = errors.New("secret is already stored for another resource")

// Entry is one resource/secret pair.
type Entry struct {
	Resource string
	Secret   string
}

// Outcome reports how an upsert concluded.
type Outcome int

const (
	Written     Outcome = iota // new entry appended
	Overwritten                // existing entry replaced after confirmation
	Cancelled                  // user declined the overwrite, vault untouched
)

// OverwritePrompt asks for explicit confirmation before an existing entry is
// replaced. It is injected so the CLI can use the terminal and tests can use
// scripted doubles. Returning false cancels the write.
type OverwritePrompt func(existing Entry, newSecret string) (bool, error)

// Store holds the parsed vault with lookup indexes over the entry order.
type Store struct {
	path       string
	entries    []Entry
	byResource map[string]int
	bySecret   map[string]int
	log        *logger.Logger
}

// Open reads the vault file of an unlocked session. A Session is required
// so the store can never be reached without passing the key gate.
func Open(sess *gate.Session, log *logger.Logger) (*Store, error) {
	s := &Store{path: sess.VaultPath(), log: log}
	if err := s.load(); err != nil {
		return nil, err
	}
	log.Debug().Int("entries", len(s.entries)).Msg("vault loaded")
	return s, nil
}

// load parses the vault file into the entry list and rebuilds the indexes.
func (s *Store) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open vault file: %w", err)
	}
	defer f.Close()

	s.entries = nil
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		resource, secret, ok := strings.Cut(line, Delimiter)
		if !ok {
			return fmt.Errorf("malformed vault line %d: missing %q delimiter", lineNo, Delimiter)
		}
		s.entries = append(s.entries, Entry{Resource: resource, Secret: secret})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read vault file: %w", err)
	}

	s.rebuildIndex()
	return nil
}

// rebuildIndex recreates the lookup maps from the entry order. On a corrupt
// file that violates the uniqueness invariants the first occurrence wins,
// which is the documented recovery behavior.
func (s *Store) rebuildIndex() {
	s.byResource = make(map[string]int, len(s.entries))
	s.bySecret = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		if _, ok := s.byResource[e.Resource]; !ok {
			s.byResource[e.Resource] = i
		}
		if _, ok := s.bySecret[e.Secret]; !ok {
			s.bySecret[e.Secret] = i
		}
	}
}

// LookupByResource returns the entry stored for resource. Matching is exact
// whole-field equality, never prefix or substring.
func (s *Store) LookupByResource(resource string) (Entry, bool) {
	i, ok := s.byResource[resource]
	if !ok {
		return Entry{}, false
	}
	s.log.Debug().Str("resource", resource).Msg("resource lookup hit")
	return s.entries[i], true
}

// LookupBySecret returns the entry holding secret, for reverse lookup.
func (s *Store) LookupBySecret(secret string) (Entry, bool) {
	i, ok := s.bySecret[secret]
	if !ok {
		return Entry{}, false
	}
	s.log.Debug().Str("resource", s.entries[i].Resource).Msg("secret lookup hit")
	return s.entries[i], true
}

// List returns all entries in file order.
func (s *Store) List() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Upsert stores secret under resource.
//
// The secret is validated against the complexity policy before storage is
// touched, and both fields are rejected if they embed the line delimiter or
// a line break (ambiguous to parse back). A secret already held by a
// different resource is a hard error (ErrSecretTaken); allowing it would
// break reverse lookup, so this applies to fresh writes and overwrites
// alike. Writing to an existing resource goes through prompt and replaces
// the entry in place only on explicit confirmation.
func (s *Store) Upsert(resource, secret string, prompt OverwritePrompt) (Outcome, error) {
	if err := policy.Validate(secret, "password"); err != nil {
		return Cancelled, err
	}
	if err := validateField(resource, "resource"); err != nil {
		return Cancelled, err
	}
	if err := validateField(secret, "password"); err != nil {
		return Cancelled, err
	}

	if i, ok := s.bySecret[secret]; ok && s.entries[i].Resource != resource {
		s.log.Debug().Str("resource", resource).Msg("secret collision")
		return Cancelled, ErrSecretTaken
	}

	if i, ok := s.byResource[resource]; ok {
		return s.overwrite(i, secret, prompt)
	}

	entry := Entry{Resource: resource, Secret: secret}
	if err := s.appendLine(entry); err != nil {
		return Cancelled, err
	}
	s.entries = append(s.entries, entry)
	s.byResource[resource] = len(s.entries) - 1
	s.bySecret[secret] = len(s.entries) - 1

	s.log.Debug().Str("resource", resource).Msg("entry written")
	return Written, nil
}

// overwrite replaces the secret of the entry at index i after confirmation,
// preserving its position in the ordered sequence.
func (s *Store) overwrite(i int, secret string, prompt OverwritePrompt) (Outcome, error) {
	confirmed, err := prompt(s.entries[i], secret)
	if err != nil {
		return Cancelled, fmt.Errorf("failed to confirm overwrite: %w", err)
	}
	if !confirmed {
		s.log.Debug().Str("resource", s.entries[i].Resource).Msg("overwrite cancelled")
		return Cancelled, nil
	}

	previous := s.entries[i].Secret
	s.entries[i].Secret = secret
	if err := s.rewrite(); err != nil {
		s.entries[i].Secret = previous
		return Cancelled, err
	}
	s.rebuildIndex()

	s.log.Debug().Str("resource", s.entries[i].Resource).Msg("entry overwritten")
	return Overwritten, nil
}

// appendLine appends a single entry to the vault file.
func (s *Store) appendLine(e Entry) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, gate.FilePermSecure)
	if err != nil {
		return fmt.Errorf("failed to open vault file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s%s%s\n", e.Resource, Delimiter, e.Secret); err != nil {
		f.Close()
		return fmt.Errorf("failed to append entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close vault file: %w", err)
	}
	return nil
}

// rewrite persists the full entry list through a temp file and an atomic
// rename, so a failed write never leaves a truncated vault behind.
func (s *Store) rewrite() error {
	var b strings.Builder
	for _, e := range s.entries {
		fmt.Fprintf(&b, "%s%s%s\n", e.Resource, Delimiter, e.Secret)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(b.String()), gate.FilePermSecure); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace vault file: %w", err)
	}
	return nil
}

// validateField rejects values the line format cannot represent.
func validateField(value, label string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", label)
	}
	if strings.Contains(value, Delimiter) {
		return fmt.Errorf("%s must not contain the %q delimiter", label, Delimiter)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%s must not contain line breaks", label)
	}
	return nil
}
