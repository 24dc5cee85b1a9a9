package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/keyfold/internal/termio"
	"github.com/illarion/keyfold/internal/vault"
)

// Store upserts secret under resource. A write to an existing resource goes
// through the interactive overwrite prompt; declining leaves the vault
// unchanged and exits cleanly.
func Store(app *App, resource, secret string) {
	store := unlock(app)

	prompt := vault.NewTerminalPrompt(os.Stdout, termio.ConfirmStdin)
	outcome, err := store.Upsert(resource, secret, prompt)
	if err != nil {
		HandleError(err)
	}

	switch outcome {
	case vault.Written:
		fmt.Printf("stored: %s\n", resource)
	case vault.Overwritten:
		fmt.Printf("overwritten: %s\n", resource)
	case vault.Cancelled:
		fmt.Println("cancelled, vault unchanged")
	}
}
