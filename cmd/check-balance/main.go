// Command check-balance loads the BlockDAG snapshot, reads an address from
// stdin, and prints its balance.
package main

import (
	"bufio"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/daglabs-fork/blockdagd/blockdag"
)

type cliOptions struct {
	SnapshotPath string `long:"snapshot" description:"Path to the BlockDAG snapshot file" default:"blockdag.json"`
}

func main() {
	opts := &cliOptions{}
	if _, err := flags.NewParser(opts, flags.PrintErrors|flags.HelpFlag).Parse(); err != nil {
		os.Exit(1)
	}

	dag, err := blockdag.LoadFromFile(opts.SnapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load snapshot from %s: %s\n", opts.SnapshotPath, err)
		os.Exit(1)
	}

	fmt.Println("Enter address to check balance:")
	reader := bufio.NewReader(os.Stdin)
	address, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read address: %s\n", err)
		os.Exit(1)
	}
	address = trimNewline(address)

	balance := dag.GetBalance(address)
	fmt.Printf("Balance for address %s: %d\n", address, balance)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
