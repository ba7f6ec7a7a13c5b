package main

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2/app"

	"region-clicker/src/clipboard"
	"region-clicker/src/config"
	"region-clicker/src/overlay"
	"region-clicker/src/region"
)

const appID = "io.github.region-clicker.cli"

func selectRegion(opts cliOptions, copyToClipboard bool, out io.Writer) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{PanicHotkeyOverride: opts.panicHotkey})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a := app.NewWithID(appID)
	sel := overlay.NewSelector(a, cfg.MinSelectionSpan)

	var (
		r         region.Region
		cancelled bool
		selErr    error
	)
	go func() {
		defer a.Quit()
		r, cancelled, selErr = sel.Select(context.Background())
	}()
	a.Run()

	if selErr != nil {
		return selErr
	}
	if cancelled {
		return fmt.Errorf("selection cancelled")
	}
	fmt.Fprintln(out, r.String())
	if copyToClipboard {
		if err := clipboard.WriteRegion(r); err != nil {
			return err
		}
	}
	return nil
}
