//go:build !windows

package main

import (
	"log"

	"region-clicker/src/screenshot"
)

func enableDPIAwareness() {}

func logMonitorConfiguration() {
	primary, err := screenshot.GetDisplayBounds()
	if err != nil {
		log.Printf("MONITOR: %v", err)
		return
	}
	virtual, _ := screenshot.VirtualBounds()
	log.Printf("MONITOR: primary %v, virtual %v", primary, virtual)
}
