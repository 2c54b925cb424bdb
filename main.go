package main

import (
	"flag"
	"fmt"
	"os"

	"yashubustudio/vibematch/internal/app"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml (default ./config.yaml)")
	flag.Parse()
	if err := app.Run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "vibematch: %v\n", err)
		os.Exit(1)
	}
}
