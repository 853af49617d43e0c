package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/quorum"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It is the responsibility of
// the command function to parse the arguments.
//
// Commands building a message accept the -encode flag. Instead of submitting
// the message, its encoded form is written to the output so that it can be
// proposed as a call of a multi-account:
//
//	$ multiacct register -others A,B -threshold 2 -encode \
//	    | multiacct propose -account C
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"accounts":  cmdAccounts,
	"account":   cmdAccount,
	"cancel":    cmdCancel,
	"configure": cmdConfigure,
	"derive":    cmdDerive,
	"executed":  cmdExecuted,
	"init":      cmdInit,
	"keyaddr":   cmdKeyaddr,
	"keygen":    cmdKeygen,
	"pending":   cmdPending,
	"propose":   cmdPropose,
	"register":  cmdRegister,
	"sequence":  cmdSequence,
	"start":     cmdStart,
	"validate":  cmdValidate,
	"version":   cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs and operates a ledger of multi-signatory accounts.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, quorum.Version())
	return err
}
