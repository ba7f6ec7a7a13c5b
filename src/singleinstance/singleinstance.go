package singleinstance

// This file defines the API for single-instance ownership and remote control
// of the resident clicker.

import (
	"context"
	"fmt"
	"strings"
)

// Command is one line-protocol request understood by the resident.
type Command string

const (
	// CmdStop asks the resident to stop a running click session.
	CmdStop Command = "STOP"
	// CmdStatus asks for a one-line status summary.
	CmdStatus Command = "STATUS"
	// CmdShow brings the resident window to the front.
	CmdShow Command = "SHOW"
)

// ParseCommand accepts the commands above case-insensitively.
func ParseCommand(s string) (Command, error) {
	switch c := Command(strings.ToUpper(strings.TrimSpace(s))); c {
	case CmdStop, CmdStatus, CmdShow:
		return c, nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// Server owns the TCP endpoint and answers control requests.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	Request() Request
	RespondSuccess(text string) error
	RespondError(msg string) error
	Close() error
}

// Request represents a single control request.
type Request struct {
	Command Command
}

// Client delegates a command to a resident server.
type Client interface {
	// Send scans the port range, performs the PING handshake and delivers cmd.
	// If no resident is found, returns delegated=false, err=nil.
	Send(ctx context.Context, cmd Command) (delegated bool, text string, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
