package cmd

import (
	"fmt"
	"os"
)

// LookupResource prints the secret stored for resource, or exits with the
// not-found status when there is no such entry.
func LookupResource(app *App, resource string) {
	store := unlock(app)

	entry, ok := store.LookupByResource(resource)
	if !ok {
		fmt.Fprintf(os.Stderr, "no entry for resource %s\n", resource)
		os.Exit(ExitNotFound)
	}
	fmt.Println(entry.Secret)
}

// LookupSecret prints the resource a secret belongs to (reverse lookup), or
// exits with the not-found status.
func LookupSecret(app *App, secret string) {
	store := unlock(app)

	entry, ok := store.LookupBySecret(secret)
	if !ok {
		fmt.Fprintln(os.Stderr, "no entry for that secret")
		os.Exit(ExitNotFound)
	}
	fmt.Println(entry.Resource)
}
