package main

import (
	"log"

	"github.com/mithrel/gridspike/internal/cli"
)

func main() {
	log.SetFlags(0)
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
