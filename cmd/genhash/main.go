// Prints the bcrypt hash of a PIN, for seeding employees by hand.
// Usage: go run ./cmd/genhash 1234
package main

import (
	"fmt"
	"os"

	"christocar/internal/service"
)

func main() {
	pin := "1234"
	if len(os.Args) > 1 {
		pin = os.Args[1]
	}
	h, err := service.HashPIN(pin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(h)
}
