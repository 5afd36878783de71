package main

import (
	"os"

	"github.com/soundprediction/graphrecall/cmd/graphrecall"
)

func main() {
	if err := graphrecall.Execute(); err != nil {
		os.Exit(1)
	}
}
