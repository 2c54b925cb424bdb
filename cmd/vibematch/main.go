// Command vibematch pairs form submissions and serves the results.
//
// Usage:
//
//	vibematch [flags] <command> [args]
//
// Commands:
//
//	match    - pair the submissions in a CSV/TSV export
//	flames   - play the FLAMES name game for two names
//	serve    - look up results by name and class over HTTP
//	version  - show version information
package main

import (
	"fmt"
	"os"

	"yashubustudio/vibematch/cmd/vibematch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vibematch: %v\n", err)
		os.Exit(1)
	}
}
