// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"fmt"
	"log"
	"syscall"

	"github.com/fluffyriot/brandpulse/internal/authhelp"
	"golang.org/x/term"
)

// HandleHashPassword reads a password from the terminal and prints its
// bcrypt hash, for operators building USER_ env entries by hand.
func HandleHashPassword() {
	fmt.Print("Enter password to hash: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("\nFailed to read password: %v", err)
	}
	fmt.Println()

	password := string(bytePassword)
	if err := authhelp.ValidatePasswordStrength(password); err != nil {
		log.Fatalf("Password is too weak: %v", err)
	}

	hash, err := authhelp.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Println(hash)
}
