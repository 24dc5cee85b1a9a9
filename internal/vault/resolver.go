package vault

import (
	"fmt"
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ConfirmFunc asks a yes/no question. The terminal implementation lives in
// termio; tests script it.
type ConfirmFunc func(prompt string) (bool, error)

// NewTerminalPrompt builds the interactive OverwritePrompt used by the CLI.
// It presents the existing entry, renders a character diff between the
// stored and the proposed secret, and asks for explicit confirmation.
// Anything but an explicit affirmative, including empty input, cancels.
func NewTerminalPrompt(out io.Writer, confirm ConfirmFunc) OverwritePrompt {
	return func(existing Entry, newSecret string) (bool, error) {
		fmt.Fprintf(out, "\nwarning: a secret is already stored for %s\n", existing.Resource)
		fmt.Fprintf(out, "   current: %s%s%s\n", existing.Resource, Delimiter, existing.Secret)

		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(existing.Secret, newSecret, false)
		fmt.Fprintf(out, "   change:  %s\n", dmp.DiffPrettyText(diffs))

		return confirm(fmt.Sprintf("Overwrite secret for %s?", existing.Resource))
	}
}
