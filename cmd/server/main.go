package main

import (
	"os" // Exit status

	"restaurant_reservation/internal/cli" // Command tree
)

// Main function to run the reservation service
func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1) // Cobra already printed the error
	}
}
