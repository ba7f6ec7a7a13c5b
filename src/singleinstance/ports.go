package singleinstance

import (
	"os"
	"strconv"
)

const (
	defaultPortStart = 49560
	defaultPortEnd   = 49580

	portStartVar = "SINGLEINSTANCE_PORT_START"
	portEndVar   = "SINGLEINSTANCE_PORT_END"
)

// getPortRange returns the configured inclusive TCP port range, clamped to
// [1024, 65535]. Unset or invalid variables fall back to the defaults.
func getPortRange() (int, int) {
	start := envInt(portStartVar, defaultPortStart)
	end := envInt(portEndVar, defaultPortEnd)
	if start < 1024 {
		start = 1024
	}
	if end > 65535 {
		end = 65535
	}
	if end < start {
		start, end = end, start
	}
	return start, end
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

// GetPortRangeForDebug exposes the current effective port range for logging/debugging.
func GetPortRangeForDebug() (int, int) { return getPortRange() }
