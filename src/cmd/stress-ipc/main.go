package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"region-clicker/src/singleinstance"
)

type stressOptions struct {
	n        int
	command  string
	deadline time.Duration
}

type tally struct {
	ok, refused, absent, failed int32
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-ipc",
		Short:         "Hammer the resident clicker with concurrent control requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := singleinstance.ParseCommand(opts.command)
			if err != nil {
				return err
			}
			if c == singleinstance.CmdStop {
				return fmt.Errorf("refusing to stress %s; it would end the running session", c)
			}
			t := runWithOptions(singleinstance.NewClient(), c, *opts)
			report(cmd.OutOrStdout(), opts.n, t)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of concurrent clients")
	cmd.Flags().StringVar(&opts.command, "cmd", "status", "status|show: command each client sends")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(client singleinstance.Client, c singleinstance.Command, opts stressOptions) *tally {
	var wg sync.WaitGroup
	t := &tally{}
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			delegated, _, err := client.Send(ctx, c)
			switch {
			case err != nil && strings.Contains(strings.ToLower(err.Error()), "not running"):
				atomic.AddInt32(&t.refused, 1)
			case err != nil:
				atomic.AddInt32(&t.failed, 1)
			case !delegated:
				atomic.AddInt32(&t.absent, 1)
			default:
				atomic.AddInt32(&t.ok, 1)
			}
		}()
	}
	wg.Wait()
	return t
}

func report(w io.Writer, n int, t *tally) {
	fmt.Fprintf(w, "launched=%d ok=%d refused=%d absent=%d err=%d\n", n, t.ok, t.refused, t.absent, t.failed)
}
