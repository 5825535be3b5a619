package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"shortlink.backend/pkg/crypto"
)

var (
	stdout         io.Writer = os.Stdout
	stderr         io.Writer = os.Stderr
	exit                     = os.Exit
	generateHashFn           = crypto.HashPassword
)

var errUsage = errors.New("usage: hash-gen <password>")

// run prints the bcrypt hash of the single password argument
func run(args []string, out io.Writer) error {
	if len(args) != 1 || args[0] == "" {
		return errUsage
	}
	hash, err := generateHashFn(args[0])
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func main() {
	if err := run(os.Args[1:], stdout); err != nil {
		fmt.Fprintln(stderr, err)
		exit(1)
	}
}
