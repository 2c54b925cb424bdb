// Package app is the fyne desktop front end: load a form export, pair the
// cohort, review the pairs and export the result CSV.
package app

import (
	"fmt"
	"io"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/vibematch/internal/logging"
	"yashubustudio/vibematch/vibematch"
)

const fyneAppID = "yashubustudio.vibematch"

// Run loads the configuration, builds the service and blocks in the UI loop.
func Run(cfgPath string) error {
	cfg, err := vibematch.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sink := newLogBuffer(200)
	logging.Init(logging.Config{
		Level:   cfg.Log.Level,
		Format:  "console",
		Output:  io.MultiWriter(os.Stderr, sink),
		NoColor: true,
	})

	svc, err := vibematch.OpenService(cfg, logging.Logger())
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer svc.Close()

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, cfgPath, sink)
	u.w.ShowAndRun()
	return nil
}
