// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.

//go:build linux

// Command osnpsim runs a single OSNP endpoint against a simulated radio
// PHY exposed as a pseudo terminal, so the frames an Endpoint transmits
// can be inspected (e.g. with xxd on the pty path it logs at startup)
// without real 802.15.4 hardware.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	osnp "github.com/mbalistreri/osnp"
	"github.com/mbalistreri/osnp/internal/identitystore"
	"github.com/mbalistreri/osnp/internal/osnplog"
)

func main() {
	var identityPath = pflag.StringP("identity-file", "i", "osnp-identity.yaml", "Path to the YAML file persisting this endpoint's identity.")
	var euiStr = pflag.StringP("eui", "e", "00:01:02:03:04:05:06:07", "64-bit extended address, as 8 colon-separated hex octets. Only used the first time identity-file is created.")
	var scanInterval = pflag.DurationP("scan-interval", "s", 250*time.Millisecond, "Dwell time per channel while scanning for a coordinator.")
	var waitInterval = pflag.DurationP("wait-interval", "w", time.Second, "Timeout while waiting for an association reply or pending data.")
	var pollInterval = pflag.DurationP("poll-interval", "p", 2*time.Second, "Interval between DATA_REQ polls once associated.")
	var firmwareVersion = pflag.Uint8P("firmware-version", "f", 1, "Value the demo command processor reports for GET_DEVICE_INFO, XORed with the request's parameter octet (0 when absent).")
	var verbose = pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "osnpsim - a simulated OSNP sensor endpoint over a pseudo terminal radio link.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: osnpsim [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := osnplog.New(os.Stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	eui, err := osnp.ParseEUI64(*euiStr)
	if err != nil {
		logger.Error("invalid --eui", "err", err)
		os.Exit(1)
	}

	store, err := identitystore.New(*identityPath, eui)
	if err != nil {
		logger.Error("failed to open identity store", "err", err)
		os.Exit(1)
	}

	phy, err := newSimulatedPHY(logger, *scanInterval, *waitInterval, *pollInterval)
	if err != nil {
		logger.Error("failed to create simulated radio", "err", err)
		os.Exit(1)
	}

	proc := &demoProcessor{firmwareVersion: *firmwareVersion}

	ep := osnp.NewEndpoint(phy, store, proc, logger, osnp.DefaultTxBufferSize)

	logger.Info("simulated radio link ready", "pty", phy.Name())

	if err := ep.Initialize(); err != nil {
		logger.Error("failed to initialize endpoint", "err", err)
		os.Exit(1)
	}

	go phy.readLoop()

	for event := range phy.events {
		event(ep)
	}
}
