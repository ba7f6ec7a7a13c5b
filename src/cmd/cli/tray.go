package main

import (
	"fmt"

	"region-clicker/src/tray"
)

// waitWithTray shows a tray icon until wait returns. systray needs the
// calling goroutine, so wait runs in the background.
func waitWithTray[T any](onStop func(), panicKey string, wait func() T) T {
	result := make(chan T, 1)
	icon := tray.New(tray.Config{
		Title:   "Region Clicker",
		Tooltip: fmt.Sprintf("Clicking (panic hotkey: %s)", panicKey),
		OnStop:  onStop,
	})
	go func() {
		r := wait()
		icon.SetStopped("Stopped")
		result <- r
		icon.Quit()
	}()
	icon.Run()
	return <-result
}
