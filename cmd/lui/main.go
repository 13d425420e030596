package main

import (
	"fmt"
	"os"

	"github.com/i-soumya18/Linux-Universal-App-Installer/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
