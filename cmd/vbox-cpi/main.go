// Package main is the entry point for the vbox-cpi operator CLI.
package main

import (
	"log"

	"github.com/virtforge/vbox-cpi/cmd/vbox-cpi/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("Error: %s", err)
	}
}
