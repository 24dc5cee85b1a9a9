package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/keyfold/internal/keyring"
)

// Forget removes the cached master key from the OS keyring. No unlock is
// required: dropping the cache never touches the vault itself.
func Forget(app *App) {
	err := keyring.DeleteKey(app.Cfg.Root)
	if errors.Is(err, keyring.ErrNotCached) {
		fmt.Println("no master key cached for this vault")
		return
	}
	if err != nil {
		HandleError(err)
	}
	fmt.Println("cached master key removed from OS keyring")
}
