// Command udfwatch watches a JSON or YAML file of named counters, feeds every
// change into a udf store and prints the props of the components connected
// to it whenever they change.
//
// Usage
//
//	udfwatch --file tallies.yaml --format yaml
//
// The file holds a single mapping:
//
//	counts:
//	  apples: 3
//	  pears: 5
//
// Configuration
//
// Flags override environment variables:
//
//	UDFWATCH_FILE      path of the watched file
//	UDFWATCH_FORMAT    json or yaml (default json)
//	UDFWATCH_DEBOUNCE  debounce window (default 100ms)
package main

import (
	"os"

	"github.com/zoobzio/udf/cmd/udfwatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
