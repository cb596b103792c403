package main

import (
	"os"

	"github.com/tphakala/calendar-go/cmd"
)

func main() {
	if err := cmd.RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
