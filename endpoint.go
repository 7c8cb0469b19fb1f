// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

import (
	"github.com/charmbracelet/log"

	"github.com/mbalistreri/osnp/internal/osnplog"
)

// State is one of the four states the endpoint state machine can be in.
type State byte

const (
	StateScanning State = iota
	StateWaitingAssocReply
	StateAssociated
	StateWaitingPending
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "SCANNING"
	case StateWaitingAssocReply:
		return "WAITING_ASSOC_REPLY"
	case StateAssociated:
		return "ASSOCIATED"
	case StateWaitingPending:
		return "WAITING_PENDING"
	default:
		return "UNKNOWN"
	}
}

// Endpoint is the OSNP endpoint state machine (component C4). It holds the
// identity tuple, TX sequence counter and tuned channel that the source
// stack kept as module-level globals (see SPEC_FULL.md §9); the platform
// holds exactly one Endpoint per radio.
//
// Endpoint is not safe for concurrent use: Initialize, OnFrameReceived,
// OnFrameSent and OnTimerExpired must be serialized by the caller, exactly
// as the source stack's single run-to-completion discipline requires. If
// the driver delivers these from interrupt context, it must defer them to
// one worker, or mask interrupts around each call.
type Endpoint struct {
	ident   Identity
	state   State
	seq     byte
	channel byte

	driver Driver
	store  IdentityStore
	proc   CommandProcessor
	log    *log.Logger

	txBuf []byte
}

// NewEndpoint constructs an Endpoint. logger may be nil, in which case
// diagnostics are discarded. txBufSize should normally be
// DefaultTxBufferSize.
func NewEndpoint(driver Driver, store IdentityStore, proc CommandProcessor, logger *log.Logger, txBufSize int) *Endpoint {
	if logger == nil {
		logger = osnplog.Discard()
	}
	if txBufSize <= 0 {
		txBufSize = DefaultTxBufferSize
	}
	return &Endpoint{
		driver: driver,
		store:  store,
		proc:   proc,
		log:    logger,
		txBuf:  make([]byte, txBufSize),
	}
}

// State returns the endpoint's current state.
func (e *Endpoint) State() State { return e.state }

// Identity returns a copy of the endpoint's current identity tuple.
func (e *Endpoint) Identity() Identity { return e.ident }

// Initialize loads the persisted identity, tunes the radio and starts the
// first timer, mirroring osnp_initialize. If the persisted channel is the
// sentinel ChannelUnassociated, the endpoint boots into SCANNING at channel
// 0; otherwise it resumes directly into ASSOCIATED at the persisted
// channel.
func (e *Endpoint) Initialize() error {
	eui, err := e.store.LoadEUI()
	if err != nil {
		return err
	}
	pan, err := e.store.LoadPANID()
	if err != nil {
		return err
	}
	short, err := e.store.LoadShortAddress()
	if err != nil {
		return err
	}
	ch, err := e.store.LoadChannel()
	if err != nil {
		return err
	}

	e.ident.EUI = eui
	e.ident.PANID = pan
	e.ident.ShortAddr = short
	e.channel = ch
	e.seq = 0

	if e.channel == ChannelUnassociated {
		e.channel = 0
		e.state = StateScanning
		e.driver.StartChannelScanningTimer()
	} else {
		e.state = StateAssociated
		e.driver.StartPollTimer()
	}
	e.ident.Channel = e.channel

	e.driver.SwitchChannel(e.channel)
	e.log.Debug("initialized", "state", e.state, "channel", e.channel)
	return nil
}

// OnTimerExpired handles expiry of whichever timer is currently active,
// implementing the transition table in SPEC_FULL.md §4.3.
func (e *Endpoint) OnTimerExpired() {
	switch e.state {
	case StateScanning:
		e.channel = (e.channel + 1) % NumChannels
		e.ident.Channel = e.channel
		e.driver.SwitchChannel(e.channel)
		e.driver.StartChannelScanningTimer()
	case StateWaitingAssocReply:
		e.state = StateScanning
		e.driver.StartChannelScanningTimer()
	case StateAssociated:
		e.Poll()
	case StateWaitingPending:
		e.state = StateAssociated
		e.driver.StartPollTimer()
	}
}

// OnFrameSent handles completion of the single outstanding transmission.
// A non-OK status is treated conservatively as "no pending data"; the poll
// cycle implicitly retries (SPEC_FULL.md §7).
func (e *Endpoint) OnFrameSent(status TxStatus) {
	switch e.state {
	case StateScanning:
		e.driver.StartChannelScanningTimer()
	case StateWaitingAssocReply:
		e.driver.StartAssociationWaitTimer()
	case StateAssociated, StateWaitingPending:
		if status == TxStatusOK && e.driver.GetPendingFrames() {
			e.state = StateWaitingPending
			e.driver.StartPendingDataWaitTimer()
		} else {
			if status != TxStatusOK {
				e.log.Warn("transmit failed, reverting to poll cycle", "status", status)
			}
			e.state = StateAssociated
			e.driver.StartPollTimer()
		}
	}
}

// OnFrameReceived parses buf and dispatches it to the MAC-command or
// data-frame handler, mirroring osnp_frame_received_cb. A malformed frame
// is dropped silently.
func (e *Endpoint) OnFrameReceived(buf []byte, totalLen int) {
	f, err := Parse(buf, totalLen)
	if err != nil {
		e.log.Warn("dropping malformed frame", "err", err)
		return
	}

	if e.state == StateScanning {
		e.state = StateWaitingAssocReply
	} else if e.state == StateAssociated && fcFramePend(f.FCLow()) {
		e.state = StateWaitingPending
	}

	switch fcFrameType(f.FCLow()) {
	case FrameTypeData:
		e.handleDataFrame(f)
	case FrameTypeMCmd:
		e.handleMACCommandFrame(f)
	}
}

// Poll transmits a DATA_REQ MAC command, mirroring osnp_poll.
func (e *Endpoint) Poll() {
	fcLow := makeFcLow(FrameTypeMCmd, false, false, true, false)
	fcHigh := makeFcHigh(AddrModeNone, 0, AddrModeShort)

	f, err := InitializeFrame(fcLow, fcHigh, 0, e.txBuf, &e.seq, &e.ident)
	if err != nil {
		e.log.Warn("failed to build poll frame", "err", err)
		return
	}
	f.PayloadCap()[0] = MCmdDataReq
	f.SetPayloadLen(1)

	if err := e.driver.TransmitFrame(f); err != nil {
		e.log.Warn("failed to transmit poll frame", "err", err)
	}
}
