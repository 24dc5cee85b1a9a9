package cmd

import (
	"fmt"

	"github.com/illarion/keyfold/internal/vault"
)

// List unlocks the vault and prints every entry in file order.
func List(app *App) {
	store := unlock(app)

	entries := store.List()
	if len(entries) == 0 {
		fmt.Println("vault is empty")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s%s%s\n", e.Resource, vault.Delimiter, e.Secret)
	}
}
