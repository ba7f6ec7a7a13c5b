package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"region-clicker/src/clicker"
	"region-clicker/src/config"
	"region-clicker/src/eventloop"
	"region-clicker/src/hotkey"
	"region-clicker/src/logutil"
	"region-clicker/src/region"
	"region-clicker/src/runtimeinit"
	"region-clicker/src/singleinstance"
)

const ipcTimeout = 3 * time.Second

type cliOptions struct {
	verbose     bool
	panicHotkey string
}

type runOptions struct {
	region   string
	hz       int
	button   string
	duration time.Duration
	tray     bool
	yes      bool
}

// runRequest is a validated run command.
type runRequest struct {
	region   region.Region
	hz       int
	button   clicker.Button
	duration time.Duration
}

var errNoResident = errors.New("no running clicker found")

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
		args = []string{"clicker-cli"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clicker-cli",
		Short:         "Click inside a screen region from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.verbose)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.panicHotkey, "panic-hotkey", "", "Override PANIC_HOTKEY for this run")

	cmd.AddCommand(newRunCmd(opts), newSelectCmd(opts), newStopCmd(), newStatusCmd())
	return cmd
}

func newRunCmd(opts *cliOptions) *cobra.Command {
	ro := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Click in a region until stopped",
		Example: "  clicker-cli run --region 100,100,300,200 --hz 20 --button left --duration 30s\n" +
			"  clicker-cli run --region 500,400,500,400 --tray",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := ro.validate()
			if err != nil {
				return err
			}
			return runClicks(cmd.Context(), *opts, *ro, req, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&ro.region, "region", "", "Region as x1,y1,x2,y2 in screen pixels")
	cmd.Flags().IntVar(&ro.hz, "hz", 0, "Clicks per second (default DEFAULT_FREQUENCY_HZ)")
	cmd.Flags().StringVar(&ro.button, "button", "", "left|right|middle (default DEFAULT_BUTTON)")
	cmd.Flags().DurationVar(&ro.duration, "duration", 0, "Stop automatically after this long (0 = until stopped)")
	cmd.Flags().BoolVar(&ro.tray, "tray", false, "Show a tray icon with a Stop item")
	cmd.Flags().BoolVarP(&ro.yes, "yes", "y", false, "Skip the high-frequency confirmation")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

func newSelectCmd(opts *cliOptions) *cobra.Command {
	var copyToClipboard bool
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Drag a region on screen and print it as x1,y1,x2,y2",
		RunE: func(cmd *cobra.Command, args []string) error {
			return selectRegion(*opts, copyToClipboard, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Also copy the region to the clipboard")
	return cmd
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the clicking session of the running instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd.Context(), singleinstance.NewClient(), singleinstance.CmdStop, cmd.OutOrStdout())
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of the running instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd.Context(), singleinstance.NewClient(), singleinstance.CmdStatus, cmd.OutOrStdout())
		},
	}
}

func setupLogging(verbose bool) {
	if verbose {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// loggingFor keeps --verbose output on stderr and otherwise honours
// ENABLE_FILE_LOGGING.
func loggingFor(opts cliOptions) func(bool) {
	if opts.verbose {
		return nil
	}
	return logutil.Setup
}

func (ro runOptions) validate() (runRequest, error) {
	r, err := region.Parse(ro.region)
	if err != nil {
		return runRequest{}, fmt.Errorf("--region: %w", err)
	}
	s := runRequest{region: r, hz: ro.hz, duration: ro.duration, button: clicker.ButtonLeft}
	if ro.hz != 0 && (ro.hz < clicker.MinFrequencyHz || ro.hz > clicker.MaxFrequencyHz) {
		return runRequest{}, fmt.Errorf("--hz must be between %d and %d, got %d", clicker.MinFrequencyHz, clicker.MaxFrequencyHz, ro.hz)
	}
	if ro.button != "" {
		if s.button, err = clicker.ParseButton(ro.button); err != nil {
			return runRequest{}, fmt.Errorf("--button: %w", err)
		}
	}
	if ro.duration < 0 {
		return runRequest{}, fmt.Errorf("--duration must not be negative")
	}
	return s, nil
}

func runClicks(ctx context.Context, opts cliOptions, ro runOptions, req runRequest, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	preflight, cancelPreflight := context.WithTimeout(ctx, time.Second)
	port, resident := singleinstance.DetectResidentPort(preflight)
	cancelPreflight()
	if resident {
		return fmt.Errorf("another clicker is resident on port %d; stop or close it first", port)
	}

	rt, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  config.LoadOptions{PanicHotkeyOverride: opts.panicHotkey, FrequencyOverride: req.hz},
		SetupLogging: loggingFor(opts),
	})
	if err != nil {
		return err
	}
	defer hotkey.Shutdown()

	type outcome struct {
		reason clicker.StopReason
		err    error
	}
	done := make(chan outcome, 1)
	sess := rt.NewSession(
		func(text string) { fmt.Fprintln(out, text) },
		func(reason clicker.StopReason, err error) { done <- outcome{reason, err} },
	)
	sess.SetRegion(req.region)
	if ro.button != "" {
		if err := sess.SetButton(req.button); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SHOW has no window to raise in a headless run.
	loop := eventloop.New(sess, nil)
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("control loop: %v", err)
		}
	}()

	confirm := func(hz int) bool {
		return ro.yes || confirmPrompt(in, out, hz, rt.Config.PanicHotkey)
	}
	if err := sess.StartClicking(confirm); err != nil {
		return fmt.Errorf("cannot start: %w", err)
	}
	fmt.Fprintf(out, "Panic hotkey: %s. Stop with Ctrl+C or 'clicker-cli stop'.\n", rt.Config.PanicHotkey)

	if req.duration > 0 {
		timer := time.AfterFunc(req.duration, sess.StopClicking)
		defer timer.Stop()
	}
	go func() {
		<-ctx.Done()
		sess.StopClicking()
	}()

	var res outcome
	if ro.tray {
		res = waitWithTray(sess.StopClicking, rt.Config.PanicHotkey, func() outcome { return <-done })
	} else {
		res = <-done
	}

	if !sess.Shutdown(rt.Config.ShutdownTimeout) {
		log.Printf("worker did not stop within %v", rt.Config.ShutdownTimeout)
	}
	return exitError(res.reason, res.err)
}

// confirmPrompt asks on the terminal; anything but y/yes declines.
func confirmPrompt(in io.Reader, out io.Writer, hz int, panicKey string) bool {
	fmt.Fprintf(out, "Clicking at %d Hz can make the desktop hard to use (panic hotkey: %s). Continue? [y/N] ", hz, panicKey)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// exitError turns abnormal stop reasons into a non-zero exit.
func exitError(reason clicker.StopReason, err error) error {
	switch reason {
	case clicker.FailSafeTriggered:
		return clicker.ErrFailSafe
	case clicker.RuntimeError:
		if err == nil {
			err = errors.New("unknown error")
		}
		return fmt.Errorf("clicking stopped: %w", err)
	}
	return nil
}

func sendCommand(ctx context.Context, client singleinstance.Client, c singleinstance.Command, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, ipcTimeout)
	defer cancel()
	delegated, text, err := client.Send(ctx, c)
	if err != nil {
		return err
	}
	if !delegated {
		return errNoResident
	}
	if text = strings.TrimSpace(text); text != "" {
		fmt.Fprintln(out, text)
	}
	return nil
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	longFlags := []string{"region", "hz", "button", "duration", "tray", "yes", "copy", "verbose", "panic-hotkey"}
	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		if strings.HasPrefix(arg, "--") || !strings.HasPrefix(arg, "-") {
			continue
		}
		for _, name := range longFlags {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
