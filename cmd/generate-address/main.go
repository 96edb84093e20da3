// Command generate-address prints a freshly generated Ed25519 address and
// its private key in hex. It takes no inputs.
package main

import (
	"fmt"
	"os"

	"github.com/daglabs-fork/blockdagd/wallet"
)

func main() {
	w, err := wallet.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate wallet: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Address: %s\n", w.Address())
	fmt.Printf("Private Key: %s\n", w.PrivateKeyHex())
}
