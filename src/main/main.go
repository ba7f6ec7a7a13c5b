package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"region-clicker/src/config"
	"region-clicker/src/eventloop"
	"region-clicker/src/gui"
	"region-clicker/src/hotkey"
	"region-clicker/src/logutil"
	"region-clicker/src/runtimeinit"
	"region-clicker/src/singleinstance"
)

const (
	appID = "io.github.region-clicker"

	delegationTimeout = 2 * time.Second
)

type mainOptions struct {
	panicHotkey string
	hz          int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"region-clicker"}
	}

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "region-clicker",
		Short:         "Auto-clicker that clicks inside a selected screen region",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.panicHotkey, "panic-hotkey", "", "Override PANIC_HOTKEY")
	cmd.Flags().IntVar(&opts.hz, "hz", 0, "Initial click frequency (overrides DEFAULT_FREQUENCY_HZ)")

	return cmd
}

func runGUI(opts mainOptions) error {
	// Ensure DPI awareness before creating any windows or querying metrics
	enableDPIAwareness()

	// Load .env early so SINGLEINSTANCE_PORT_* apply to the delegation scan
	_, _ = config.Load()
	launched := false
	handleLaunchWithDelegation(singleinstance.NewClient(), func() { launched = true })
	if !launched {
		fmt.Println("Region Clicker is already running; brought it to the front")
		return nil
	}

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			PanicHotkeyOverride: opts.panicHotkey,
			FrequencyOverride:   opts.hz,
		},
		SetupLogging: setupLogging,
	})
	if err != nil {
		return err
	}
	defer hotkey.Shutdown()
	logMonitorConfiguration()

	a := app.NewWithID(appID)
	panel := gui.New(a, gui.Options{Config: rt.Config, NewSession: rt.NewSession})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := eventloop.New(panel.Session(), panel.Show)
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
		}
	}()

	log.Printf("Region Clicker started (panic hotkey %s)", rt.Config.PanicHotkey)
	panel.ShowAndRun()
	log.Printf("Region Clicker exiting")
	return nil
}

// handleLaunchWithDelegation asks a resident instance to show its window.
// launch runs only when no resident took the request.
func handleLaunchWithDelegation(client singleinstance.Client, launch func()) {
	ctx, cancel := context.WithTimeout(context.Background(), delegationTimeout)
	defer cancel()

	delegated, _, err := client.Send(ctx, singleinstance.CmdShow)
	if err != nil {
		log.Printf("Delegation error: %v; starting a new instance", err)
		launch()
		return
	}
	if delegated {
		log.Printf("Delegated SHOW to resident")
		return
	}
	launch()
}

func setupLogging(enableFileLogging bool) {
	logutil.Setup(enableFileLogging)
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		switch {
		case arg == "-panic-hotkey":
			normalized[i] = "--panic-hotkey"
		case strings.HasPrefix(arg, "-panic-hotkey="):
			normalized[i] = "--panic-hotkey=" + arg[len("-panic-hotkey="):]
		case arg == "-hz":
			normalized[i] = "--hz"
		case strings.HasPrefix(arg, "-hz="):
			normalized[i] = "--hz=" + arg[len("-hz="):]
		}
	}

	return normalized
}
