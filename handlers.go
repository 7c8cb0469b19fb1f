// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

import "github.com/mbalistreri/osnp/internal/tlv"

// Capabilities reports the device-capability octet this endpoint answers
// ASSOCIATION_REQ with. Defaults to CapabilityRxPollDriven; a duty-cycled
// sensor node has no reason to advertise CapabilityRxAlwaysOn.
func (e *Endpoint) capabilities() byte { return CapabilityRxPollDriven }

// handleMACCommandFrame implements component C5: DISCOVER and
// ASSOCIATION_REQ while unassociated, DISASSOCIATED once associated. Every
// other MAC command is ignored silently, mirroring
// _osnp_mac_command_frame_received_cb.
func (e *Endpoint) handleMACCommandFrame(f *Frame) {
	if f.PayloadLen() < 1 {
		return
	}
	cmd := f.Payload()[0]

	if e.state < StateAssociated {
		switch cmd {
		case MCmdDiscover:
			e.handleDiscoverRequest(f)
		case MCmdAssociationReq:
			e.handleAssociationRequest(f)
		}
		return
	}

	switch cmd {
	case MCmdDisassociated:
		e.handleDisassociationNotification()
	}
}

// handleDiscoverRequest answers a DISCOVER with EXT source addressing
// (the endpoint has no short address yet), mirroring
// _osnp_handle_discovery_request.
func (e *Endpoint) handleDiscoverRequest(f *Frame) {
	tx, err := InitializeResponseFrame(f, e.txBuf, &e.seq, &e.ident, false)
	if err != nil {
		e.log.Warn("failed to build discover response", "err", err)
		return
	}
	tx.PayloadCap()[0] = MCmdDiscover
	tx.SetPayloadLen(1)

	if err := e.driver.TransmitFrame(tx); err != nil {
		e.log.Warn("failed to transmit discover response", "err", err)
	}

	e.driver.StopActiveTimer()
	e.driver.StartAssociationWaitTimer()
}

// handleAssociationRequest adopts the hub's assigned PAN ID and short
// address, persists the new identity (PAN, then short address, then
// channel, in that order — see DESIGN.md's C5 entry on crash tolerance), and
// replies with ASSOCIATION_RES, mirroring
// _osnp_handle_association_request.
func (e *Endpoint) handleAssociationRequest(f *Frame) {
	if f.PayloadLen() < 3 {
		return
	}
	srcPAN := f.SrcPAN()
	if srcPAN == nil {
		return
	}

	copy(e.ident.PANID[:], srcPAN)
	payload := f.Payload()
	copy(e.ident.ShortAddr[:], payload[1:3])

	if err := e.store.WritePANID(e.ident.PANID); err != nil {
		e.log.Warn("failed to persist PAN ID", "err", err)
	}
	if err := e.store.WriteShortAddress(e.ident.ShortAddr); err != nil {
		e.log.Warn("failed to persist short address", "err", err)
	}
	if err := e.store.WriteChannel(e.channel); err != nil {
		e.log.Warn("failed to persist channel", "err", err)
	}

	e.driver.StopActiveTimer()
	e.state = StateAssociated

	fcLow := makeFcLow(FrameTypeMCmd, false, false, true, false)
	fcHigh := makeFcHigh(AddrModeNone, 0, AddrModeShort)
	tx, err := InitializeFrame(fcLow, fcHigh, 0, e.txBuf, &e.seq, &e.ident)
	if err != nil {
		e.log.Warn("failed to build association response", "err", err)
		return
	}
	buf := tx.PayloadCap()
	buf[0] = MCmdAssociationRes
	buf[1] = e.capabilities()
	tx.SetPayloadLen(2)

	if err := e.driver.TransmitFrame(tx); err != nil {
		e.log.Warn("failed to transmit association response", "err", err)
	}
}

// handleDisassociationNotification resets the PAN/short address/channel to
// their sentinel values, persists them, and returns to scanning at channel
// 0, mirroring _osnp_handle_disassociation_notification.
func (e *Endpoint) handleDisassociationNotification() {
	e.ident.PANID = PANIDReset
	e.ident.ShortAddr = ShortAddrReset

	if err := e.store.WritePANID(e.ident.PANID); err != nil {
		e.log.Warn("failed to persist PAN ID reset", "err", err)
	}
	if err := e.store.WriteShortAddress(e.ident.ShortAddr); err != nil {
		e.log.Warn("failed to persist short address reset", "err", err)
	}
	if err := e.store.WriteChannel(ChannelUnassociated); err != nil {
		e.log.Warn("failed to persist channel reset", "err", err)
	}
	e.channel = 0
	e.ident.Channel = e.channel

	e.state = StateScanning
	e.driver.StopActiveTimer()
	e.driver.StartChannelScanningTimer()
}

// handleDataFrame implements component C6: unwraps the request's 0xE0 TLV
// container, builds a response wrapped in an indefinite-length 0xE1
// container, and walks the inner body by repeatedly invoking the injected
// CommandProcessor, mirroring _osnp_data_frame_received_cb. A request whose
// outer tag is not 0xE0, or that lacks a definite length, is dropped
// silently.
func (e *Endpoint) handleDataFrame(f *Frame) {
	payload := f.Payload()
	i := 0

	tag, n, err := tlv.ReadTag(payload[i:])
	if err != nil {
		return
	}
	i += n
	if tag != TagRequestContainer {
		return
	}

	length, n, err := tlv.ReadLength(payload[i:])
	if err != nil {
		return
	}
	i += n
	end := i + length

	tx, err := InitializeResponseFrame(f, e.txBuf, &e.seq, &e.ident, e.state >= StateAssociated)
	if err != nil {
		e.log.Warn("failed to build data response", "err", err)
		return
	}

	out := tx.PayloadCap()
	j := 0
	n, _ = tlv.WriteTag(out[j:], TagResponseContainer)
	j += n
	n, _ = tlv.WriteIndefiniteLength(out[j:])
	j += n

	authenticated := e.state >= StateAssociated
	for i < end {
		if err := e.proc.Process(f, &i, tx, &j, authenticated); err != nil {
			e.log.Debug("command processor reported an error", "err", err)
			break
		}
	}

	n, _ = tlv.WriteIndefiniteLengthTerminator(out[j:])
	j += n
	tx.SetPayloadLen(j)

	if err := e.driver.TransmitFrame(tx); err != nil {
		e.log.Warn("failed to transmit data response", "err", err)
	}
}
