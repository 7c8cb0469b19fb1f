// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	osnp "github.com/mbalistreri/osnp"
)

// simulatedPHY stands in for the radio PHY driver osnp.Driver abstracts
// over. It exposes the on-air frame stream as a pty so the bytes an
// Endpoint transmits can be inspected with a plain terminal program, the
// same trick samoyed uses to expose a simulated serial radio link. Timers
// are collapsed onto a single *time.Timer, per the "overlapping timers
// modeled as one" design note: starting any Start*Timer call implicitly
// cancels whatever was running.
type simulatedPHY struct {
	log *log.Logger

	master *os.File
	slave  *os.File

	events chan func(*osnp.Endpoint)

	timer        *time.Timer
	scanInterval time.Duration
	waitInterval time.Duration
	pollInterval time.Duration

	pendingFrames bool
}

func newSimulatedPHY(logger *log.Logger, scan, wait, poll time.Duration) (*simulatedPHY, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open simulated radio pty: %w", err)
	}

	termios, err := unix.IoctlGetTermios(int(slave.Fd()), unix.TCGETS)
	if err == nil {
		// Raw mode: the simulated radio link carries framed binary, not a
		// line-oriented terminal session.
		termios.Lflag &^= unix.ECHO | unix.ICANON
		_ = unix.IoctlSetTermios(int(slave.Fd()), unix.TCSETS, termios)
	}

	return &simulatedPHY{
		log:          logger,
		master:       master,
		slave:        slave,
		events:       make(chan func(*osnp.Endpoint), 16),
		scanInterval: scan,
		waitInterval: wait,
		pollInterval: poll,
	}, nil
}

// Name reports the pty path bytes are sent/received on, for operator
// convenience.
func (p *simulatedPHY) Name() string { return p.slave.Name() }

func (p *simulatedPHY) SwitchChannel(ch byte) {
	p.log.Debug("switching channel", "channel", ch)
}

func (p *simulatedPHY) TransmitFrame(f *osnp.Frame) error {
	n := f.TotalLen()
	out := f.Backing()[:n]
	if _, err := p.master.Write(out); err != nil {
		return err
	}
	// The simulator has no real hub on the other end of the wire to NAK or
	// ACK; report success immediately, as a driver would once the PHY
	// confirms the frame left the antenna.
	p.events <- func(e *osnp.Endpoint) { e.OnFrameSent(osnp.TxStatusOK) }
	return nil
}

func (p *simulatedPHY) armTimer(d time.Duration, fire func()) {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(d, fire)
}

func (p *simulatedPHY) StartChannelScanningTimer() {
	p.armTimer(p.scanInterval, func() { p.events <- func(e *osnp.Endpoint) { e.OnTimerExpired() } })
}

func (p *simulatedPHY) StartAssociationWaitTimer() {
	p.armTimer(p.waitInterval, func() { p.events <- func(e *osnp.Endpoint) { e.OnTimerExpired() } })
}

func (p *simulatedPHY) StartPollTimer() {
	p.armTimer(p.pollInterval, func() { p.events <- func(e *osnp.Endpoint) { e.OnTimerExpired() } })
}

func (p *simulatedPHY) StartPendingDataWaitTimer() {
	p.armTimer(p.waitInterval, func() { p.events <- func(e *osnp.Endpoint) { e.OnTimerExpired() } })
}

func (p *simulatedPHY) StopActiveTimer() {
	if p.timer != nil {
		p.timer.Stop()
	}
}

func (p *simulatedPHY) GetPendingFrames() bool { return p.pendingFrames }

// readLoop feeds bytes arriving on the simulated radio link to the
// Endpoint's frame-received event, serialized through the same events
// channel every timer and TX-completion callback uses. A real driver would
// instead be woken by a radio interrupt; the contract is identical.
func (p *simulatedPHY) readLoop() {
	buf := make([]byte, osnp.DefaultTxBufferSize)
	for {
		n, err := p.master.Read(buf)
		if err != nil {
			return
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		p.events <- func(e *osnp.Endpoint) { e.OnFrameReceived(frame, len(frame)) }
	}
}
