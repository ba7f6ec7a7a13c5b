package notification

import (
	"log"

	"fyne.io/fyne/v2"

	"region-clicker/src/clicker"
	"region-clicker/src/logutil"
)

const appTitle = "Region Clicker"

// Message returns the notification body for a finished run, or "" when the
// run ended normally and nothing should be shown.
func Message(reason clicker.StopReason, err error) string {
	switch reason {
	case clicker.FailSafeTriggered:
		return "Stopped: pointer reached the fail-safe corner."
	case clicker.RuntimeError:
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		return "Stopped after an error: " + logutil.Truncate(msg, 200)
	}
	return ""
}

// ShowStopReason posts a desktop notification for abnormal terminations.
// app may be nil in headless runs; the message is then only logged.
func ShowStopReason(app fyne.App, reason clicker.StopReason, err error) {
	msg := Message(reason, err)
	if msg == "" {
		return
	}
	log.Printf("notification: %s", msg)
	if app == nil {
		return
	}
	app.SendNotification(fyne.NewNotification(appTitle, msg))
}
