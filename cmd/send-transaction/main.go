// Command send-transaction reads a sender, receiver, amount, fee, and
// private key from stdin, signs a transaction, and transmits it to a
// running node as a NewTransaction wire message.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"syscall"

	flags "github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/daglabs-fork/blockdagd/message"
	"github.com/daglabs-fork/blockdagd/network"
	"github.com/daglabs-fork/blockdagd/transaction"
	"github.com/daglabs-fork/blockdagd/wallet"
)

type cliOptions struct {
	NodeAddress string `long:"node" description:"host:port of the node to submit the transaction to" default:"127.0.0.1:8080"`
}

func main() {
	opts := &cliOptions{}
	if _, err := flags.NewParser(opts, flags.PrintErrors|flags.HelpFlag).Parse(); err != nil {
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	sender := prompt(reader, "Enter sender address:")
	receiver := prompt(reader, "Enter receiver address:")
	amount := promptUint(reader, "Enter amount:")
	fee := promptUint(reader, "Enter fee:")
	privateKeyHex := promptHidden("Enter private key: ")

	w, err := wallet.FromPrivateKeyHex(privateKeyHex)
	if err != nil {
		fatal("invalid private key: %s", err)
	}
	if w.Address() != sender {
		fatal("provided sender address does not match derived public key from the private key")
	}

	tx := transaction.New(sender, receiver, amount, fee, "")
	tx.Signature = w.Sign(tx.CanonicalHash())

	if err := network.SendMessage(opts.NodeAddress, message.NewTransaction(tx)); err != nil {
		fatal("failed to send transaction: %s", err)
	}

	fmt.Println("Transaction added successfully!")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Println(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		fatal("failed to read input: %s", err)
	}
	return trimNewline(line)
}

func promptUint(reader *bufio.Reader, label string) uint64 {
	raw := prompt(reader, label)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fatal("invalid integer %q: %s", raw, err)
	}
	return value
}

func promptHidden(label string) string {
	fmt.Fprint(os.Stderr, label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fatal("failed to read private key: %s", err)
	}
	return string(raw)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
