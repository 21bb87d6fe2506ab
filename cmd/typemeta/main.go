// Package main provides the CLI entrypoint for typemeta.
//
// typemeta loads Go packages into a type-metadata universe and answers
// queries over it:
//   - types: the types each package defines, with partial loads tolerated
//   - members: the visible members of a type across its ancestors
//   - element: the element type of a sequence
//   - default: the default value of a type
package main

import (
	"fmt"
	"os"
)

var (
	// Version information - will be set at build time
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
