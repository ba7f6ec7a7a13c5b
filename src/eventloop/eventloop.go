package eventloop

import (
	"context"
	"fmt"
	"log"
	"strings"

	"region-clicker/src/session"
	"region-clicker/src/singleinstance"
)

// Controller is the slice of session.Session the loop needs.
type Controller interface {
	StopClicking()
	Running() bool
	Snapshot() session.Snapshot
}

// Loop is the single-threaded coordinator for remote control requests sent
// by other instances and the CLI.
type Loop struct {
	ctl    Controller
	srv    singleinstance.Server
	onShow func()
}

// New creates a loop serving ctl. onShow raises the main window and may be nil.
func New(ctl Controller, onShow func()) *Loop {
	return &Loop{ctl: ctl, srv: singleinstance.NewServer(), onShow: onShow}
}

// Port returns the bound resident port, or 0 before Run.
func (l *Loop) Port() int { return l.srv.Port() }

// Run starts the singleinstance server and processes client requests.
// It blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.srv.Start(ctx); err != nil {
		return err
	}
	defer l.srv.Close()
	log.Printf("Resident listening on 127.0.0.1:%d", l.srv.Port())

	for {
		conn, err := l.srv.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		l.handleConn(conn)
	}
}

func (l *Loop) handleConn(conn singleinstance.Conn) {
	defer conn.Close()
	cmd := conn.Request().Command
	log.Printf("handleConn: %s", cmd)
	var err error
	switch cmd {
	case singleinstance.CmdStop:
		if !l.ctl.Running() {
			err = conn.RespondError("not running")
			break
		}
		l.ctl.StopClicking()
		err = conn.RespondSuccess("stop requested")
	case singleinstance.CmdStatus:
		err = conn.RespondSuccess(FormatStatus(l.ctl.Snapshot()))
	case singleinstance.CmdShow:
		if l.onShow != nil {
			l.onShow()
		}
		err = conn.RespondSuccess("")
	default:
		err = conn.RespondError(fmt.Sprintf("unsupported command %q", cmd))
	}
	if err != nil {
		log.Printf("handleConn: reply failed: %v", err)
	}
}

// FormatStatus renders a snapshot as one line.
func FormatStatus(s session.Snapshot) string {
	parts := []string{"idle"}
	if s.Running {
		parts[0] = "running"
	}
	if s.HasRegion {
		parts = append(parts, "region "+s.Region.String(), s.Mode)
	} else {
		parts = append(parts, "no region")
	}
	parts = append(parts, fmt.Sprintf("%d Hz", s.FrequencyHz), s.Button.String()+" button")
	if s.Running {
		parts = append(parts, fmt.Sprintf("%d clicks", s.Clicks))
	}
	if s.LastStatus != "" {
		parts = append(parts, "last: "+s.LastStatus)
	}
	return strings.Join(parts, " | ")
}
