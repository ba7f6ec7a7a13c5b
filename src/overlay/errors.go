package overlay

import "errors"

// ErrBusy is returned when a selection is already on screen.
var ErrBusy = errors.New("region selection already in progress")
