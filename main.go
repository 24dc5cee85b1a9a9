package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illarion/keyfold/cmd"
	"github.com/illarion/keyfold/internal/config"
	"github.com/illarion/keyfold/internal/logger"
)

func main() {
	resource := flag.String("r", "", "resource name to look up or store")
	secret := flag.String("p", "", "secret to look up or store")
	verbose := flag.Bool("v", false, "trace each internal step on stderr")
	remember := flag.Bool("remember", false, "cache the master key in the OS keyring after unlocking")
	forget := flag.Bool("forget", false, "remove the cached master key from the OS keyring")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected argument: %s\n", flag.Arg(0))
		printUsage()
		os.Exit(cmd.ExitError)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(cmd.ExitError)
	}

	app := &cmd.App{
		Cfg:      cfg,
		Log:      logger.New(*verbose),
		Remember: *remember,
	}

	switch {
	case *forget:
		cmd.Forget(app)
	case *resource != "" && *secret != "":
		cmd.Store(app, *resource, *secret)
	case *resource != "":
		cmd.LookupResource(app, *resource)
	case *secret != "":
		cmd.LookupSecret(app, *secret)
	default:
		cmd.List(app)
	}
}

func printUsage() {
	fmt.Println("keyfold - single-user local credential vault")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  keyfold [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -r <resource>   Look up the secret stored for a resource")
	fmt.Println("  -p <secret>     Look up which resource a secret belongs to")
	fmt.Println("  -r ... -p ...   Store a secret for a resource (asks before overwriting)")
	fmt.Println("  -v              Trace each internal step on stderr")
	fmt.Println("  -remember       Cache the master key in the OS keyring after unlocking")
	fmt.Println("  -forget         Remove the cached master key from the OS keyring")
	fmt.Println()
	fmt.Println("Without flags keyfold unlocks the vault and prints every entry.")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  KEYFOLD_HOME    Configuration root (default ~/.keyfold)")
	fmt.Println("  KEYFOLD_KEY     Master key, for non-interactive use")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  success, or an overwrite declined at the prompt")
	fmt.Println("  1  policy violation, rejected master key, secret collision, I/O error")
	fmt.Println("  2  lookup found no entry")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  keyfold -r mail -p 'S3cret!passw0rd'   # store")
	fmt.Println("  keyfold -r mail                        # print the secret for mail")
	fmt.Println("  keyfold -p 'S3cret!passw0rd'           # print which resource uses this")
	fmt.Println("  keyfold                                # list everything")
}
