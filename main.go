package main

import (
	"os"

	"github.com/jindracerny/gpx-plot-on-map/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
