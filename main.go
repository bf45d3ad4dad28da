package main

import (
	"log"

	"github.com/sphynx-hq/sphynx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
