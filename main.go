package main

import (
	"log"

	"github.com/ridepulse/eta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
