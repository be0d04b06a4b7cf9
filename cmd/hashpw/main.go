// Command hashpw reads a password from the terminal without echo and prints
// its bcrypt hash, ready to paste into the catalog seed file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func run(w io.Writer, fd int, cost int) error {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return err
	}
	defer clear(pw)

	if len(pw) == 0 {
		return errors.New("empty password")
	}

	hash, err := auth.NewBcryptHasher(cost).Hash(string(pw))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}

func main() {
	cost := flag.Int("cost", 0, "bcrypt cost (default when below the minimum)")
	flag.Parse()

	if err := run(os.Stdout, int(os.Stdin.Fd()), *cost); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
