// Package termio provides the interactive terminal input used by keyfold:
// hidden secret entry and yes/no confirmation prompts.
package termio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/illarion/keyfold/internal/secure"
	"golang.org/x/term"
)

// ReadSecret reads a secret from the terminal without echoing
func ReadSecret(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	return secret, nil
}

// ReadSecretConfirm reads a secret twice and ensures both entries match
func ReadSecretConfirm(prompt string) ([]byte, error) {
	first, err := ReadSecret(prompt)
	if err != nil {
		return nil, err
	}
	defer secure.ClearBytes(first)

	second, err := ReadSecret("Confirm: ")
	if err != nil {
		return nil, err
	}
	defer secure.ClearBytes(second)

	if !secure.ConstantTimeCompare(first, second) {
		return nil, fmt.Errorf("entries do not match")
	}

	// Return a copy of the secret
	result := make([]byte, len(first))
	copy(result, first)
	return result, nil
}

// Confirm prints prompt and reads one line from r. Only an explicit
// affirmative counts as yes; empty input and everything else is no.
func Confirm(prompt string, r io.Reader) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	return IsAffirmative(line), nil
}

// ConfirmStdin is Confirm reading from the process stdin.
func ConfirmStdin(prompt string) (bool, error) {
	return Confirm(prompt, os.Stdin)
}

// IsAffirmative reports whether answer is an explicit yes ("y" or "yes",
// case-insensitive, surrounding whitespace ignored).
func IsAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
