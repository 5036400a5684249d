package main

import (
	"log"

	"github.com/microsoft/mdtable/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
