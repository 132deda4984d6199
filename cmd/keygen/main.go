// Command keygen prints a fresh base64-encoded master key for the
// MFA_MASTER_KEY environment variable.
package main

import (
	"fmt"
	"log"

	"github.com/dmitrymomot/mfakit/pkg/envelope"
)

func main() {
	key, err := envelope.GenerateMasterKey()
	if err != nil {
		log.Fatalf("failed to generate master key: %v", err)
	}

	fmt.Printf("Generated master key (for MFA_MASTER_KEY env var):\n———\n%s\n———\n", key)
}
