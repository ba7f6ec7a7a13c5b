package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"
)

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) Send(ctx context.Context, cmd Command) (bool, string, error) {
	deadline := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			deadline = d
		}
	}
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return false, "", ctx.Err()
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if !ping(addr, deadline) {
			continue
		}
		text, err := exchange(addr, cmd, deadline)
		return true, text, err
	}
	return false, "", nil
}

func exchange(addr string, cmd Command, timeout time.Duration) (string, error) {
	var failed bool
	text, err := sendLine(addr, string(cmd)+"\n", timeout, func(br *bufio.Reader) (string, error) {
		status, err := br.ReadString('\n')
		if err != nil {
			return "", err
		}
		body, _ := io.ReadAll(br)
		switch status {
		case successLine:
			return string(body), nil
		case errorLine:
			failed = true
			return string(body), nil
		}
		return "", errors.New("unexpected response from resident: " + status)
	})
	if err != nil {
		return "", err
	}
	if failed {
		return "", errors.New(text)
	}
	return text, nil
}
